package game

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rodaine/table"
	"github.com/zond/escaperoom"
	"github.com/zond/escaperoom/gate"
	"github.com/zond/escaperoom/lang"
	"github.com/zond/escaperoom/solvers"
	"github.com/zond/escaperoom/storage"
	"github.com/zond/escaperoom/structs"
)

type command struct {
	names map[string]bool
	usage string
	help  func(*Engine) string
	f     func(*Engine, []string) error
}

type commands []command

func (c commands) attempt(e *Engine, name string, args []string) (bool, error) {
	for _, cmd := range c {
		if cmd.names[name] {
			if err := cmd.f(e, args); err != nil {
				return true, escaperoom.WithStack(err)
			}
			return true, nil
		}
	}
	return false, nil
}

func m(s ...string) map[string]bool {
	res := map[string]bool{}
	for _, p := range s {
		res[p] = true
	}
	return res
}

func (e *Engine) commands() commands {
	return []command{
		{
			names: m("look"),
			usage: "look",
			help: func(*Engine) string {
				return "Allows you to look in the current room and see what is available"
			},
			f: func(e *Engine, _ []string) error {
				e.transcript.Print(descriptions[e.room])
				return nil
			},
		},
		{
			names: m("move"),
			usage: "move <room>",
			help: func(*Engine) string {
				return fmt.Sprintf("Allows you to move to a room, rooms available are %s", lang.Enumerator{}.Do(moveNames()...))
			},
			f: (*Engine).move,
		},
		{
			names: m("inspect"),
			usage: "inspect <item>",
			help: func(e *Engine) string {
				return fmt.Sprintf("Allows you to inspect an item in the room, you are in %s and %s", e.room.Name(), inspectable(e.room))
			},
			f: (*Engine).inspect,
		},
		{
			names: m("use"),
			usage: "use <item>",
			help: func(e *Engine) string {
				action := e.room.UseAction()
				if action == "" {
					action = "nothing"
				}
				return fmt.Sprintf("Allows you to use an item to do an action, you are in %s and can use %s", e.room.Name(), action)
			},
			f: (*Engine).use,
		},
		{
			names: m("inventory", "inv"),
			usage: "inventory",
			help: func(*Engine) string {
				return "Prints the tokens found so far"
			},
			f: func(e *Engine, _ []string) error {
				e.transcript.Print("You currently have the following items in your inventory:")
				for _, line := range e.inventory.Describe() {
					e.transcript.Print(line)
				}
				return nil
			},
		},
		{
			names: m("status"),
			usage: "status",
			help: func(*Engine) string {
				return "Shows every room and whether its token is collected"
			},
			f: (*Engine).status,
		},
		{
			names: m("save"),
			usage: "save",
			help: func(e *Engine) string {
				return fmt.Sprintf("Saves the progress of the current game to %s", e.config.SavePath)
			},
			f: (*Engine).save,
		},
		{
			names: m("load"),
			usage: "load",
			help: func(e *Engine) string {
				return fmt.Sprintf("Loads the progress saved in %s, replacing the progress of this session", e.config.SavePath)
			},
			f: (*Engine).load,
		},
		{
			names: m("quit", "exit"),
			usage: "quit",
			help: func(*Engine) string {
				return "Exits the game and writes the collected evidence to the transcript"
			},
			f: func(e *Engine, _ []string) error {
				e.quit("quit")
				return nil
			},
		},
		{
			names: m("hint", "help"),
			usage: "hint",
			help: func(*Engine) string {
				return "Gives a list of available commands"
			},
			f: (*Engine).hint,
		},
	}
}

func inspectable(room structs.Room) string {
	if item := room.Item(); item != structs.NoItem {
		return "can inspect " + item.File()
	}
	return "there is nothing here"
}

func (e *Engine) move(args []string) error {
	if len(args) > 0 {
		if room, found := structs.ParseRoom(args[0]); found {
			e.room = room
			e.transcript.Printf("You have entered into %s", room.Name())
			return nil
		}
	}
	return errors.Errorf("Please enter a room with the move command, possible rooms are %s. E.g. move dns", lang.Enumerator{}.Do(moveNames()...))
}

func (e *Engine) inspect(args []string) error {
	item := e.room.Item()
	if item == structs.NoItem || len(args) == 0 || args[0] != item.File() {
		return errors.Errorf("Please enter an item with the inspect command, you are in %s and %s", e.room.Name(), inspectable(e.room))
	}
	token, err := solvers.Run(e.config.DataDir, e.room, e.transcript)
	if err != nil {
		e.audit.Log(e.ctx, "SOLVE_FAILED", storage.AuditSolveFailed{
			Room:   e.room.Name(),
			Reason: err.Error(),
		})
		return errors.Wrap(err, "An error occurred in solving the room")
	}
	e.inventory.Update(item, token)
	e.audit.Log(e.ctx, "ROOM_SOLVED", storage.AuditRoomSolved{
		Room:  e.room.Name(),
		Item:  item.File(),
		Token: token,
	})
	e.transcript.Printf("Added %s:%s to your inventory", item.File(), token)
	return nil
}

func (e *Engine) use(args []string) error {
	action := e.room.UseAction()
	if action == "" {
		return errors.New("There is nothing to use here")
	}
	if len(args) > 0 && args[0] != action {
		return errors.Errorf("%s cannot be used", args[0])
	}
	if missing := e.inventory.MissingItems(); len(missing) > 0 {
		names := make([]string, len(missing))
		for idx, item := range missing {
			names[idx] = item.File()
		}
		return errors.Errorf("You do not have all the items, you are missing %s: %s", lang.Card(len(missing), "item"), lang.Enumerator{}.Do(names...))
	}
	directive, err := e.readGate()
	if err != nil {
		return err
	}
	record, err := gate.Assemble(directive, e.inventory)
	if err != nil {
		return errors.Wrap(err, "The final gate does not open")
	}
	e.transcript.SetRoom(structs.FinalGate, record.String())
	e.audit.Log(e.ctx, "GATE_PENDING", storage.AuditGatePending{
		GroupID: record.GroupID,
		Message: record.Message(),
	})
	e.transcript.PrintBlock(record.String())
	e.quit("gate")
	return nil
}

func (e *Engine) hint(_ []string) error {
	buf := &bytes.Buffer{}
	t := table.New("Command", "Description").WithWriter(buf)
	for _, cmd := range e.commands() {
		t.AddRow(cmd.usage, cmd.help(e))
	}
	t.Print()
	e.transcript.PrintBlock(buf.String())
	return nil
}

func (e *Engine) status(_ []string) error {
	e.transcript.Printf("You are in %s", e.room.Name())
	collected := len(structs.PuzzleItems) - len(e.inventory.MissingItems())
	e.transcript.Printf("%s collected", lang.Capitalize(lang.Card(collected, "token")))
	buf := &bytes.Buffer{}
	t := table.New("Room", "Item", "Token").WithWriter(buf)
	for _, room := range structs.Rooms {
		item := room.Item()
		if item == structs.NoItem {
			continue
		}
		token := e.inventory.Token(item)
		if token == "" {
			token = "-"
		}
		t.AddRow(room.Name(), item.File(), token)
	}
	t.Print()
	e.transcript.PrintBlock(buf.String())
	return nil
}

func (e *Engine) save(_ []string) error {
	e.transcript.Print("Saving progress...")
	if err := storage.SaveState(e.config.SavePath, e.state()); err != nil {
		return errors.Wrap(err, "You did not save the current game successfully")
	}
	e.audit.Log(e.ctx, "STATE_SAVED", storage.AuditStateSaved{Path: e.config.SavePath})
	e.transcript.Print("You saved the current game successfully")
	return nil
}

func (e *Engine) load(_ []string) error {
	e.transcript.Print("Loading progress...")
	state, err := storage.LoadState(e.config.SavePath)
	if err != nil {
		return errors.Wrap(err, "You did not load the current game successfully")
	}
	warnings, err := e.restore(state)
	if err != nil {
		return errors.Wrap(err, "You did not load the current game successfully")
	}
	for _, warning := range warnings {
		e.transcript.Print(warning)
	}
	e.audit.Log(e.ctx, "STATE_LOADED", storage.AuditStateLoaded{
		Path: e.config.SavePath,
		Room: e.room.Name(),
	})
	e.transcript.Print("You loaded the current game successfully")
	return nil
}
