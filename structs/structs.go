package structs

import (
	"fmt"
	"strings"
)

// Room identifies one of the fixed locations of the game.
type Room int

const (
	Lobby Room = iota
	SOC
	DNS
	Vault
	Malware
	FinalGate
)

// Rooms lists every room in enumeration order.
var Rooms = []Room{Lobby, SOC, DNS, Vault, Malware, FinalGate}

// Name returns the printable name of the room.
func (r Room) Name() string {
	switch r {
	case Lobby:
		return "Lobby"
	case SOC:
		return "SOC"
	case DNS:
		return "DNS"
	case Vault:
		return "Vault"
	case Malware:
		return "Malware"
	case FinalGate:
		return "Final Gate"
	}
	return fmt.Sprintf("Room(%d)", int(r))
}

func (r Room) String() string {
	return r.Name()
}

// Key returns the name players use with the move command.
func (r Room) Key() string {
	switch r {
	case Lobby:
		return "lobby"
	case SOC:
		return "soc"
	case DNS:
		return "dns"
	case Vault:
		return "vault"
	case Malware:
		return "malware"
	case FinalGate:
		return "gate"
	}
	return ""
}

// Item returns the inspectable item of the room, or NoItem.
func (r Room) Item() Item {
	switch r {
	case SOC:
		return AuthLog
	case DNS:
		return DNSConfig
	case Vault:
		return VaultDump
	case Malware:
		return ProcTree
	}
	return NoItem
}

// UseAction returns the usable action of the room, or the empty string.
func (r Room) UseAction() string {
	if r == FinalGate {
		return "gate"
	}
	return ""
}

// ParseRoom resolves a move name, ignoring case.
func ParseRoom(s string) (Room, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range Rooms {
		if r.Key() == s {
			return r, true
		}
	}
	return Lobby, false
}

// Item is the single inspectable evidence file of a puzzle room.
type Item int

const (
	NoItem Item = iota
	DNSConfig
	VaultDump
	ProcTree
	AuthLog
)

// PuzzleItems lists the four token bearing items in inventory order.
var PuzzleItems = []Item{DNSConfig, VaultDump, ProcTree, AuthLog}

// File returns the filename shaped name of the item.
func (i Item) File() string {
	switch i {
	case DNSConfig:
		return "dns.cfg"
	case VaultDump:
		return "vault_dump.txt"
	case ProcTree:
		return "proc_tree.jsonl"
	case AuthLog:
		return "auth.log"
	}
	return "no item"
}

func (i Item) String() string {
	return i.File()
}

// Room returns the room holding the item.
func (i Item) Room() Room {
	switch i {
	case DNSConfig:
		return DNS
	case VaultDump:
		return Vault
	case ProcTree:
		return Malware
	case AuthLog:
		return SOC
	}
	return Lobby
}

// Kind returns the token kind produced by solving the item.
func (i Item) Kind() Kind {
	switch i {
	case DNSConfig:
		return KindDNS
	case VaultDump:
		return KindSafe
	case ProcTree:
		return KindPID
	case AuthLog:
		return KindKeypad
	}
	return KindNone
}

// ParseItem resolves an item by its exact file name.
func ParseItem(file string) (Item, bool) {
	for _, i := range PuzzleItems {
		if i.File() == file {
			return i, true
		}
	}
	return NoItem, false
}

// Kind is the tag used for a token in transcripts and gate directives.
type Kind string

const (
	KindNone   Kind = ""
	KindDNS    Kind = "DNS"
	KindKeypad Kind = "KEYPAD"
	KindSafe   Kind = "SAFE"
	KindPID    Kind = "PID"
)

// Item returns the item whose token carries the kind.
func (k Kind) Item() (Item, bool) {
	for _, i := range PuzzleItems {
		if i.Kind() == k {
			return i, true
		}
	}
	return NoItem, false
}

// Token renders the TOKEN[<kind>]=<value> evidence line.
func (k Kind) Token(value string) string {
	return fmt.Sprintf("TOKEN[%s]=%s", k, value)
}

// Evidence renders the EVIDENCE[<kind>].<field>=<value> evidence line.
func (k Kind) Evidence(field string, value any) string {
	return fmt.Sprintf("EVIDENCE[%s].%s=%v", k, field, value)
}
