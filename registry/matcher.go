package registry

import "strings"

// Match reports whether an event name matches a pattern of
// dash-separated segments.
//
//	"board-topic-created" → exact match
//	"board-*"             → every name starting with the board- segment
//	"*-created"           → every name ending with the -created segment
//	"tourney-*-ready"     → tourney-match-ready, tourney-participant-ready
//	"*"                   → everything
//
// A "*" segment stands for one or more whole segments.
func Match(pattern, name string) bool {
	if pattern == "*" || pattern == name {
		return true
	}

	return matchSegments(strings.Split(pattern, "-"), strings.Split(name, "-"))
}

func matchSegments(pattern, name []string) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}

	if pattern[0] != "*" {
		if len(name) == 0 || pattern[0] != name[0] {
			return false
		}
		return matchSegments(pattern[1:], name[1:])
	}

	for i := 1; i <= len(name); i++ {
		if matchSegments(pattern[1:], name[i:]) {
			return true
		}
	}

	return false
}
