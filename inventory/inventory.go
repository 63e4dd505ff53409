package inventory

import (
	"fmt"
	"slices"

	"github.com/zond/escaperoom/structs"
)

// Inventory holds the most recent token of each puzzle item.
type Inventory struct {
	tokens map[structs.Item]string
}

func New() *Inventory {
	return &Inventory{tokens: map[structs.Item]string{}}
}

// Update overwrites the slot of item. Items other than the puzzle items are ignored.
func (i *Inventory) Update(item structs.Item, token string) {
	if item.Kind() == structs.KindNone {
		return
	}
	i.tokens[item] = token
}

func (i *Inventory) Token(item structs.Item) string {
	return i.tokens[item]
}

// IsComplete reports whether every puzzle item has a non-empty token.
func (i *Inventory) IsComplete() bool {
	return len(i.MissingItems()) == 0
}

// MissingItems returns the items without a token, in inventory order.
func (i *Inventory) MissingItems() []structs.Item {
	result := []structs.Item{}
	for _, item := range structs.PuzzleItems {
		if i.tokens[item] == "" {
			result = append(result, item)
		}
	}
	return result
}

// Describe returns one "<file>:<token>" line per filled slot.
func (i *Inventory) Describe() []string {
	result := []string{}
	for _, item := range structs.PuzzleItems {
		if token := i.tokens[item]; token != "" {
			result = append(result, fmt.Sprintf("%s:%s", item.File(), token))
		}
	}
	if len(result) == 0 {
		result = append(result, "Nothing in your inventory.")
	}
	return result
}

// Snapshot returns the slots keyed by item file name, for saving.
func (i *Inventory) Snapshot() map[string]string {
	result := map[string]string{}
	for _, item := range structs.PuzzleItems {
		result[item.File()] = i.tokens[item]
	}
	return result
}

// Restore replaces the slots with those of a snapshot.
// Unknown item names are returned and skipped.
func (i *Inventory) Restore(snapshot map[string]string) []string {
	tokens := map[structs.Item]string{}
	unknown := []string{}
	for name, token := range snapshot {
		item, found := structs.ParseItem(name)
		if !found {
			unknown = append(unknown, name)
			continue
		}
		tokens[item] = token
	}
	i.tokens = tokens
	slices.Sort(unknown)
	return unknown
}
