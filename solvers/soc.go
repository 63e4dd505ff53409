package solvers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/zond/escaperoom/structs"
	"github.com/zond/escaperoom/transcript"
)

const (
	failedMarker   = "Failed password"
	acceptedMarker = "Accepted password"
)

var (
	ipv4Pattern = regexp.MustCompile(`\b(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})\b`)
)

// SOC finds the /24 subnet with the most failed SSH logins in an auth log.
type SOC struct{}

func (SOC) Room() structs.Room {
	return structs.SOC
}

type subnetFailures struct {
	subnet string
	count  int
	ips    []string
	sample string
}

// authLogReport is what one pass over an auth log found.
type authLogReport struct {
	// subnets are in order of first failure.
	subnets   []*subnetFailures
	accepted  int
	malformed int
}

func validIPv4(ip string) bool {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}

func subnetOf(ip string) string {
	return ip[:strings.LastIndexByte(ip, '.')]
}

func lastOctet(ip string) string {
	return ip[strings.LastIndexByte(ip, '.')+1:]
}

func parseAuthLog(text []byte) *authLogReport {
	report := &authLogReport{}
	bySubnet := map[string]*subnetFailures{}
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		failed := strings.Contains(line, failedMarker)
		if line == "" || (!failed && !strings.Contains(line, acceptedMarker)) {
			report.malformed++
			continue
		}
		ip := ipv4Pattern.FindString(line)
		if ip == "" || !validIPv4(ip) {
			report.malformed++
			continue
		}
		if !failed {
			report.accepted++
			continue
		}
		subnet := subnetOf(ip)
		stats, found := bySubnet[subnet]
		if !found {
			stats = &subnetFailures{subnet: subnet, sample: line}
			bySubnet[subnet] = stats
			report.subnets = append(report.subnets, stats)
		}
		stats.count++
		stats.ips = append(stats.ips, ip)
	}
	return report
}

// top returns the subnet with the strictly highest count, first seen winning ties.
func (r *authLogReport) top() *subnetFailures {
	var result *subnetFailures
	for _, stats := range r.subnets {
		if result == nil || stats.count > result.count {
			result = stats
		}
	}
	return result
}

// mostCommon returns the most frequent element, first seen winning ties.
func mostCommon(elements []string) (string, int) {
	counts := map[string]int{}
	order := []string{}
	for _, element := range elements {
		if counts[element] == 0 {
			order = append(order, element)
		}
		counts[element]++
	}
	best, frequency := "", 0
	for _, element := range order {
		if counts[element] > frequency {
			best, frequency = element, counts[element]
		}
	}
	return best, frequency
}

// keypadToken concatenates the last octet of ip with the failure count.
func keypadToken(ip string, count int) string {
	return lastOctet(ip) + strconv.Itoa(count)
}

func (s SOC) Solve(input []byte, t *transcript.Transcript) (string, error) {
	report := parseAuthLog(input)
	top := report.top()
	if top == nil {
		return "", errors.Wrapf(ErrNoAttack, "no failed passwords among %d skipped and %d accepted lines", report.malformed, report.accepted)
	}
	ip, _ := mostCommon(top.ips)
	token := keypadToken(ip, top.count)
	kind := structs.AuthLog.Kind()
	for _, line := range []string{
		kind.Token(token),
		kind.Evidence("TOP24", top.subnet+".0/24"),
		kind.Evidence("COUNT", top.count),
		kind.Evidence("SAMPLE", top.sample),
		kind.Evidence("MALFORMED_SKIPPED", report.malformed),
	} {
		t.Print(line)
		t.Append(s.Room(), line)
	}
	return token, nil
}
