package history

import "github.com/zhubert/chatmodal/internal/chat"

// Unseen returns the turns of an older page that are not on screen yet,
// oldest first. shown is the history already merged into the transcript and
// live holds the turns exchanged since then, which the backend now stores
// under its own ids.
//
// Pages are positional, so every live turn pushes one older turn onto the
// next page. Turns whose id is already shown are dropped. What remains at
// the newest end and repeats the first live turns by role and text is the
// backend's copy of those turns and is dropped too. A live turn can only
// be recognised that way, so an older turn identical to the first live
// turn that is also the newest unseen turn is treated as its copy.
func Unseen(page, shown, live []chat.Message) []chat.Message {
	seen := make(map[string]bool, len(shown)+len(live))
	for _, m := range shown {
		seen[m.ID] = true
	}
	for _, m := range live {
		seen[m.ID] = true
	}

	out := make([]chat.Message, 0, len(page))
	for _, m := range page {
		if m.ID != "" && seen[m.ID] {
			continue
		}
		out = append(out, m)
	}
	return out[:len(out)-echoLen(out, live)]
}

// echoLen returns the length of the longest suffix of page that equals a
// prefix of live.
func echoLen(page, live []chat.Message) int {
	for n := min(len(page), len(live)); n > 0; n-- {
		if sameTurns(page[len(page)-n:], live[:n]) {
			return n
		}
	}
	return 0
}

func sameTurns(a, b []chat.Message) bool {
	for i := range a {
		if a[i].Role != b[i].Role || a[i].Text() != b[i].Text() {
			return false
		}
	}
	return true
}
