// scoutpad is a line-oriented console client for charting stats against
// a running gridiron service. It exists for live testing and as the
// reference wiring of the client core: keystrokes and quick entry flow
// through the shortcut router and cascade expansion into the optimistic
// ledger, while teammates' writes stream in over the game room.
//
// Usage:
//
//	scoutpad -game 3 -player 12 -user coach_d
//
// Input lines:
//
//	:player N      select the active player
//	:period STR    set the period recorded on new entries
//	:clock start|pause|reset
//	:undo / :redo
//	:list          print the ledger, newest first
//	:del ID        delete an entry
//	:quit
//	20RT           quick entry (number + combo or single-key code)
//	12r            ditto; "12" then "r" also works as two inputs
//	r              bare shortcut key, value defaults to 1
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fortuna/gridiron/internal/session"
	"github.com/fortuna/gridiron/internal/statlog"
)

func main() {
	baseURL := flag.String("url", getEnv("GRIDIRON_URL", "http://localhost:8080"), "REST base URL")
	wsURL := flag.String("ws", getEnv("GRIDIRON_WS", "ws://localhost:8081"), "WebSocket base URL")
	gameID := flag.Int("game", 0, "game id to chart")
	playerID := flag.Int("player", 0, "initial player id")
	userID := flag.String("user", "scout", "user id for created_by and shortcuts")
	flag.Parse()

	if *gameID <= 0 {
		log.Fatal("scoutpad: -game is required")
	}

	sess := session.New(*baseURL, *wsURL, *userID)
	if err := sess.Join(context.Background(), *gameID); err != nil {
		log.Fatalf("scoutpad: joining game %d: %v", *gameID, err)
	}
	defer sess.Leave()

	fmt.Printf("charting game %d as %s (player %d). :help for commands\n", *gameID, *userID, *playerID)

	activePlayer := *playerID
	period := ""

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if !runCommand(sess, line, &activePlayer, &period) {
				return
			}
			continue
		}

		if activePlayer <= 0 {
			fmt.Println("select a player first (:player N)")
			continue
		}

		// Whole line as quick entry first, then as individual keys
		if intent, ok := sess.Router.QuickEntry(line); ok {
			ids := sess.LogIntent(activePlayer, intent, period)
			fmt.Printf("logged %s %.4g (%d entries)\n", intent.Type, intent.Value, len(ids))
			continue
		}

		for _, ch := range line {
			if intent, ok := sess.Router.Keystroke(string(ch)); ok {
				ids := sess.LogIntent(activePlayer, intent, period)
				fmt.Printf("logged %s %.4g (%d entries)\n", intent.Type, intent.Value, len(ids))
			}
		}
		if buf := sess.Router.Buffer(); buf != "" {
			fmt.Printf("value buffer: %s\n", buf)
		}
	}
}

// runCommand handles a ":" command line; returns false on :quit
func runCommand(sess *session.Session, line string, activePlayer *int, period *string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return false

	case ":player":
		if len(fields) == 2 {
			if id, err := strconv.Atoi(fields[1]); err == nil && id > 0 {
				*activePlayer = id
				fmt.Printf("active player: %d\n", id)
				return true
			}
		}
		fmt.Println("usage: :player N")

	case ":period":
		if len(fields) == 2 {
			*period = fields[1]
			fmt.Printf("period: %s\n", *period)
		} else {
			fmt.Println("usage: :period STR")
		}

	case ":clock":
		if len(fields) == 2 {
			switch fields[1] {
			case "start":
				sess.Clock.Start()
			case "pause":
				sess.Clock.Pause()
			case "reset":
				sess.Clock.Reset()
			}
		}
		fmt.Printf("clock: %s\n", sess.Clock.Stamp())

	case ":undo":
		if sess.Ledger().Undo() {
			fmt.Println("undone")
		} else {
			fmt.Println("nothing to undo")
		}

	case ":redo":
		if sess.Ledger().Redo() {
			fmt.Println("redone")
		} else {
			fmt.Println("nothing to redo")
		}

	case ":del":
		if len(fields) == 2 && sess.Ledger().Remove(fields[1]) {
			fmt.Println("removed")
		} else {
			fmt.Println("usage: :del ID (see :list)")
		}

	case ":list":
		printLedger(sess.Ledger().Entries())

	case ":help":
		fmt.Println(":player N | :period STR | :clock start|pause|reset | :undo | :redo | :del ID | :list | :quit")

	default:
		fmt.Printf("unknown command %s (:help)\n", fields[0])
	}
	return true
}

func printLedger(entries []statlog.StatEntry) {
	if len(entries) == 0 {
		fmt.Println("(ledger empty)")
		return
	}
	for _, e := range entries {
		state := ""
		if e.Pending() {
			state = " [pending]"
		}
		fmt.Printf("%-14s player=%-4d %-18s %8.4g  %s %s%s\n",
			e.ID, e.PlayerID, e.Type, e.Value, e.GameClock, e.Note, state)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
