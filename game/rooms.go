package game

import (
	"github.com/zond/escaperoom/structs"
)

var descriptions = map[structs.Room]string{
	structs.Lobby:     "You are in the lobby, you can move to any room from here. Where would you like to go?",
	structs.SOC:       "You are in the SOC, a triage desk holds a large file of SSH logs called auth.log with the authentication attempts of the night. Can you identify the most likely attacking subnet?",
	structs.DNS:       "You are in the DNS room, a config file called dns.cfg stores its settings as key value pairs. Can you follow the token_tag to the right hint?",
	structs.Vault:     "You are in the Vault, a text dump called vault_dump.txt lies on the table. Somewhere inside is a valid SAFE{a-b-c} code where a+b=c. Can you find it?",
	structs.Malware:   "You are in the Malware lab, a JSON lines file called proc_tree.jsonl shows a process tree with a malicious chain ending in an exfil command.",
	structs.FinalGate: "The final gate stands before you. Have you collected all the pieces to open it?",
}

// moveOrder is the order rooms are listed in usage messages.
var moveOrder = []structs.Room{
	structs.DNS,
	structs.Malware,
	structs.SOC,
	structs.Vault,
	structs.FinalGate,
	structs.Lobby,
}

func moveNames() []string {
	result := make([]string, len(moveOrder))
	for idx, room := range moveOrder {
		result[idx] = room.Key()
	}
	return result
}

const banner = `
 _____                            ____
| ____|___  ___ __ _ _ __   ___  |  _ \ ___   ___  _ __ ___
|  _| / __|/ __/ _  | '_ \ / _ \ | |_) / _ \ / _ \| '_ ' _ \
| |___\__ \ (_| (_| | |_) |  __/ |  _ < (_) | (_) | | | | | |
|_____|___/\___\__,_| .__/ \___| |_| \_\___/ \___/|_| |_| |_|
                    |_|
`
