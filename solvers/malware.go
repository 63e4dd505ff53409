package solvers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/zond/escaperoom/structs"
	"github.com/zond/escaperoom/transcript"

	goccy "github.com/goccy/go-json"
)

var (
	exfilPattern = regexp.MustCompile(`(?i)\b(curl|wget|scp|sftp|ftp|nc|ncat|netcat|rsync)\b`)
)

// Malware finds the process ending the longest chain that leads to an exfil command.
type Malware struct{}

func (Malware) Room() structs.Room {
	return structs.Malware
}

type process struct {
	PID  int    `json:"pid"`
	PPID int    `json:"ppid"`
	Cmd  string `json:"cmd"`
}

type processTree struct {
	byPID map[int]*process
	// order holds pids by first appearance.
	order     []int
	malformed int
}

func parseProcessTree(text []byte) *processTree {
	tree := &processTree{byPID: map[int]*process{}}
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			tree.malformed++
			continue
		}
		proc := &process{}
		if err := goccy.Unmarshal([]byte(line), proc); err != nil || proc.PID <= 0 {
			tree.malformed++
			continue
		}
		if _, found := tree.byPID[proc.PID]; !found {
			tree.order = append(tree.order, proc.PID)
		}
		tree.byPID[proc.PID] = proc
	}
	return tree
}

// ancestry returns the pids from the furthest known ancestor down to pid.
func (p *processTree) ancestry(pid int) []int {
	chain := []int{pid}
	seen := map[int]bool{pid: true}
	for cur := p.byPID[pid].PPID; cur != 0 && !seen[cur]; {
		parent, found := p.byPID[cur]
		if !found {
			break
		}
		seen[cur] = true
		chain = append([]int{cur}, chain...)
		cur = parent.PPID
	}
	return chain
}

func formatChain(chain []int) string {
	parts := make([]string, len(chain))
	for idx, pid := range chain {
		parts[idx] = strconv.Itoa(pid)
	}
	return strings.Join(parts, ">")
}

func (m Malware) Solve(input []byte, t *transcript.Transcript) (string, error) {
	tree := parseProcessTree(input)
	var winner *process
	var winnerChain []int
	for _, pid := range tree.order {
		proc := tree.byPID[pid]
		if !exfilPattern.MatchString(proc.Cmd) {
			continue
		}
		if chain := tree.ancestry(pid); len(chain) > len(winnerChain) {
			winner, winnerChain = proc, chain
		}
	}
	if winner == nil {
		return "", errors.Wrapf(ErrNoExfil, "among %d processes", len(tree.order))
	}
	token := strconv.Itoa(winner.PID)
	kind := structs.ProcTree.Kind()
	for _, line := range []string{
		kind.Token(token),
		kind.Evidence("CHAIN", formatChain(winnerChain)),
		kind.Evidence("CMD", winner.Cmd),
		kind.Evidence("MALFORMED_SKIPPED", tree.malformed),
	} {
		t.Print(line)
		t.Append(m.Room(), line)
	}
	return token, nil
}
