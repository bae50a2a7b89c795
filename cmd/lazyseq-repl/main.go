// lazyseq-repl is an interactive shell for exploring a lazyseq cursor
// over a comma-separated token stream.
//
// Usage:
//
//	lazyseq-repl "monday,tuesday,wednesday,thursday,friday,saturday,sunday"
//
// Commands:
//
//	front                 Show the current cursor's front element
//	pop                   Advance the current cursor past its front element
//	index <i>             Show the element i positions ahead, without advancing
//	save                  Fork a new cursor at the current offset, switch to it
//	switch <id>           Switch the active cursor
//	list                  List all open cursors and their offsets
//	close <id>            Close a cursor
//	stats                 Show cache statistics
//	help                  Show this help
//	exit / quit / q       Exit
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/peterh/liner"

	"github.com/tbrandt/lazyseq/lazyseq"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: lazyseq-repl <comma,separated,tokens>")

		return fmt.Errorf("missing token stream argument")
	}

	tokens := strings.Split(os.Args[1], ",")

	repl := &session{
		cursors: map[int]*lazyseq.Cursor[string]{},
		offsets: map[int]int{},
	}

	root := lazyseq.Cached[string](lazyseq.NewSliceProducer(tokens))
	repl.add(root, 0)

	return repl.run()
}

// session tracks every cursor the user has opened via save/switch, since
// a lazyseq.Cursor itself carries no notion of a user-facing id.
type session struct {
	cursors map[int]*lazyseq.Cursor[string]
	offsets map[int]int
	nextID  int
	active  int
}

func (s *session) add(c *lazyseq.Cursor[string], offset int) int {
	id := s.nextID
	s.nextID++
	s.cursors[id] = c
	s.offsets[id] = offset
	s.active = id

	return id
}

func (s *session) run() error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	fmt.Println("lazyseq-repl - type 'help' for commands")

	for {
		input, err := line.Prompt(fmt.Sprintf("lazyseq[%d]> ", s.active))
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nbye")

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		fields := strings.Fields(input)
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("bye")

			return nil
		case "help", "?":
			printHelp()
		case "front":
			s.cmdFront()
		case "pop":
			s.cmdPop()
		case "index":
			s.cmdIndex(args)
		case "save":
			s.cmdSave()
		case "switch":
			s.cmdSwitch(args)
		case "list":
			s.cmdList()
		case "close":
			s.cmdClose(args)
		case "stats":
			s.cmdStats()
		default:
			fmt.Printf("unknown command: %s (type 'help')\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Println("front | pop | index <i> | save | switch <id> | list | close <id> | stats | exit")
}

func (s *session) cur() *lazyseq.Cursor[string] {
	return s.cursors[s.active]
}

func (s *session) cmdFront() {
	v, ok := s.cur().TryFront()
	if !ok {
		fmt.Println("(empty)")

		return
	}

	fmt.Println(v)
}

func (s *session) cmdPop() {
	if s.cur().Empty() {
		fmt.Println("(empty)")

		return
	}

	s.cur().PopFront()
	s.offsets[s.active]++
}

func (s *session) cmdIndex(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: index <i>")

		return
	}

	i, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("invalid index:", args[0])

		return
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Println("error:", r)
		}
	}()

	fmt.Println(s.cur().Index(i))
}

func (s *session) cmdSave() {
	forked := s.cur().Save()
	id := s.add(forked, s.offsets[s.active])
	fmt.Printf("forked cursor %d\n", id)
}

func (s *session) cmdSwitch(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: switch <id>")

		return
	}

	id, err := strconv.Atoi(args[0])
	if err != nil || s.cursors[id] == nil {
		fmt.Println("no such cursor:", args[0])

		return
	}

	s.active = id
}

func (s *session) cmdList() {
	ids := make([]int, 0, len(s.cursors))
	for id := range s.cursors {
		ids = append(ids, id)
	}

	widest := 0

	for _, id := range ids {
		w := runewidth.StringWidth(strconv.Itoa(id))
		if w > widest {
			widest = w
		}
	}

	for _, id := range ids {
		marker := " "
		if id == s.active {
			marker = "*"
		}

		fmt.Printf("%s %-*d offset=%d\n", marker, widest, id, s.offsets[id])
	}
}

func (s *session) cmdClose(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: close <id>")

		return
	}

	id, err := strconv.Atoi(args[0])
	if err != nil || s.cursors[id] == nil {
		fmt.Println("no such cursor:", args[0])

		return
	}

	s.cursors[id].Close()
	delete(s.cursors, id)
	delete(s.offsets, id)

	if s.active == id {
		for remaining := range s.cursors {
			s.active = remaining

			break
		}
	}
}

func (s *session) cmdStats() {
	stats := s.cur().Stats()
	fmt.Printf("heap_allocations:  %d\n", stats.HeapAllocations)
	fmt.Printf("leading_drop_runs: %d\n", stats.LeadingDropRuns)
	fmt.Printf("dropped_elements:  %d\n", stats.DroppedElements)
	fmt.Printf("compaction_runs:   %d\n", stats.CompactionRuns)
	fmt.Printf("removed_blocks:    %d\n", stats.RemovedBlocks)
}
