package proc

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/supratikpm/serverslayer/pkg/model"
)

// parseLsofListening parses `lsof -iTCP -sTCP:LISTEN -n -P`:
//
//	COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME
//	node    123 user 22u IPv4 0x1234 0t0     TCP  *:3000 (LISTEN)
//
// It returns the sockets and the number of lines it could not use.
func parseLsofListening(out string) ([]model.ListeningSocket, int) {
	var sockets []model.ListeningSocket
	seen := make(map[string]bool)
	skipped := 0

	for i, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" || (i == 0 && strings.HasPrefix(line, "COMMAND")) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 9 {
			skipped++
			continue
		}

		pid, err := strconv.Atoi(fields[1])
		if err != nil || pid <= 0 {
			skipped++
			continue
		}

		nameField := fields[len(fields)-1]
		if nameField == "(LISTEN)" && len(fields) >= 10 {
			nameField = fields[len(fields)-2]
		}
		if strings.Contains(nameField, "->") {
			skipped++
			continue
		}

		_, port, ok := splitHostPort(nameField)
		if !ok {
			skipped++
			continue
		}

		protocol := fields[7]
		if protocol != "TCP" && protocol != "UDP" {
			protocol = "TCP"
		}

		key := strconv.Itoa(pid) + "|" + strconv.Itoa(port)
		if seen[key] {
			continue
		}
		seen[key] = true
		sockets = append(sockets, model.ListeningSocket{Port: port, PID: pid, Protocol: protocol})
	}
	return sockets, skipped
}

// parseLsofEstablished counts established connections by local port from
// `lsof -iTCP -sTCP:ESTABLISHED -n -P`, whose NAME is local->remote.
func parseLsofEstablished(out string) (map[int]int, int) {
	counts := make(map[int]int)
	skipped := 0

	for i, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" || (i == 0 && strings.HasPrefix(line, "COMMAND")) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 9 {
			skipped++
			continue
		}

		var conn string
		for _, f := range fields[8:] {
			if strings.Contains(f, "->") {
				conn = f
				break
			}
		}
		if conn == "" {
			skipped++
			continue
		}

		local, _, _ := strings.Cut(conn, "->")
		_, port, ok := splitHostPort(local)
		if !ok {
			skipped++
			continue
		}
		counts[port]++
	}
	return counts, skipped
}

// parseNetstatListening parses `netstat -ano` on Windows:
//
//	TCP    0.0.0.0:135     0.0.0.0:0     LISTENING     888
func parseNetstatListening(out string) ([]model.ListeningSocket, int) {
	var sockets []model.ListeningSocket
	seen := make(map[string]bool)
	skipped := 0

	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "LISTENING") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			skipped++
			continue
		}

		pid, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil || pid <= 0 {
			skipped++
			continue
		}
		_, port, ok := splitHostPort(fields[1])
		if !ok {
			skipped++
			continue
		}

		key := strconv.Itoa(pid) + "|" + strconv.Itoa(port)
		if seen[key] {
			continue
		}
		seen[key] = true
		sockets = append(sockets, model.ListeningSocket{Port: port, PID: pid, Protocol: fields[0]})
	}
	return sockets, skipped
}

// parseNetstatEstablished counts ESTABLISHED rows of `netstat -ano` by the
// local address column.
func parseNetstatEstablished(out string) (map[int]int, int) {
	counts := make(map[int]int)
	skipped := 0

	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "ESTABLISHED") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			skipped++
			continue
		}
		_, port, ok := splitHostPort(fields[1])
		if !ok {
			skipped++
			continue
		}
		counts[port]++
	}
	return counts, skipped
}

// splitHostPort parses addresses like "*:8080", "127.0.0.1:8080",
// "[::1]:3000", "[::]:135" and the dotted macOS netstat form "*.8080".
func splitHostPort(addr string) (string, int, bool) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", 0, false
	}

	if strings.HasPrefix(addr, "[") {
		end := strings.LastIndex(addr, "]")
		if end == -1 {
			return "", 0, false
		}
		host := addr[1:end]
		rest := addr[end+1:]
		if len(rest) < 2 || (rest[0] != ':' && rest[0] != '.') {
			return "", 0, false
		}
		port, ok := parsePort(rest[1:])
		if host == "" {
			host = "::"
		}
		return host, port, ok
	}

	sep := strings.LastIndex(addr, ":")
	if sep == -1 {
		sep = strings.LastIndex(addr, ".")
	}
	if sep == -1 {
		return "", 0, false
	}
	host := addr[:sep]
	if host == "*" {
		host = "0.0.0.0"
	}
	port, ok := parsePort(addr[sep+1:])
	return host, port, ok
}

func parsePort(s string) (int, bool) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 0 || port > 65535 {
		return 0, false
	}
	return port, true
}

// parsePwdx parses "1234: /path/to/cwd".
func parsePwdx(out string) (string, bool) {
	_, dir, found := strings.Cut(strings.TrimSpace(out), ":")
	if !found {
		return "", false
	}
	dir = strings.TrimSpace(dir)
	if dir == "" || !strings.HasPrefix(dir, "/") {
		return "", false
	}
	return dir, true
}

// parseLsofCwd reads the first name record of `lsof -a -p PID -d cwd -F n`.
func parseLsofCwd(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "n") {
			dir := strings.TrimSpace(line[1:])
			if dir != "" {
				return dir, true
			}
		}
	}
	return "", false
}

// parsePsValue returns the single value printed by `ps -p PID -o field=`.
func parsePsValue(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if v := strings.TrimSpace(line); v != "" {
			return v
		}
	}
	return ""
}

// parseTasklist reads the image name from
// `tasklist /FI "PID eq N" /FO CSV /NH`. tasklist prints an INFO line and
// exits 0 when nothing matches.
func parseTasklist(out string) (string, bool) {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" || strings.HasPrefix(trimmed, "INFO:") {
		return "", false
	}

	r := csv.NewReader(strings.NewReader(trimmed))
	r.FieldsPerRecord = -1
	record, err := r.Read()
	if err != nil || len(record) < 2 {
		return "", false
	}
	name := strings.TrimSpace(record[0])
	return name, name != ""
}

// parseListValue extracts key from `wmic ... /format:list` output.
func parseListValue(out, key string) string {
	prefix := key + "="
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}
	return ""
}
