package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
)

// wsprobe is a terminal client for poking the websocket relay by hand:
//
//	go run ./cmd/wsprobe -url ws://localhost:3000/ws -text "मन अशांत है"
//	go run ./cmd/wsprobe -interrupt-after 500ms -text "..."
func main() {
	url := flag.String("url", "ws://localhost:3000/ws", "websocket endpoint")
	text := flag.String("text", "", "text query to send")
	random := flag.Bool("random", false, "request a random verse")
	interruptAfter := flag.Duration("interrupt-after", 0, "send an interrupt this long after the query")
	wait := flag.Duration("wait", 30*time.Second, "how long to wait for responses")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", *url, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go readLoop(conn, done)

	if *text != "" {
		send(conn, map[string]interface{}{"type": "text_query", "text": *text})
		if *interruptAfter > 0 {
			time.Sleep(*interruptAfter)
			send(conn, map[string]interface{}{"type": "interrupt"})
		}
	}
	if *random {
		send(conn, map[string]interface{}{"type": "get_random_verse"})
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case <-done:
	case <-interrupt:
		send(conn, map[string]interface{}{"type": "end_session"})
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	case <-time.After(*wait):
		color.Yellow("timed out waiting for responses")
	}
}

func send(conn *websocket.Conn, msg map[string]interface{}) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Fatalf("write: %v", err)
	}
	color.Cyan(">> %s", msg["type"])
}

func readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg map[string]interface{}
		if err := json.Unmarshal(raw, &msg); err != nil {
			color.Red("<< unparseable: %s", raw)
			continue
		}

		switch msg["type"] {
		case "connection_established":
			color.Green("<< connected, session %v", msg["sessionId"])
		case "text_response":
			color.Green("<< response (%vms): %v", msg["processingTime"], msg["text"])
			if t, ok := msg["transcription"]; ok {
				color.HiBlack("   transcription: %v", t)
			}
		case "interrupted":
			color.Yellow("<< interrupted (count %v)", msg["interruptCount"])
		case "error":
			color.Red("<< error: %v", msg["message"])
		case "session_ended":
			color.Green("<< session ended: %v", msg["stats"])
			return
		default:
			pretty, _ := json.Marshal(msg)
			color.White("<< %s", pretty)
		}
	}
}
