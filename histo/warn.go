package histo

import (
	"sort"

	"github.com/rs/zerolog"
)

//WarnOnce logs each distinct message only the first time it is given.
//It is owned by the caller, and can be shared by several histograms of
//the same analysis. It is not safe for concurrent use.
type WarnOnce struct {
	log  zerolog.Logger
	seen map[string]int
}

//NewWarnOnce returns a WarnOnce that logs through l.
func NewWarnOnce(l zerolog.Logger) *WarnOnce {
	return &WarnOnce{log: l, seen: make(map[string]int)}
}

//Warn logs msg at warning level, unless it was already logged.
func (W *WarnOnce) Warn(msg string) {
	W.seen[msg]++
	if W.seen[msg] == 1 {
		W.log.Warn().Msg(msg)
	}
}

//Count returns how many times msg was given, including the ones not logged.
func (W *WarnOnce) Count(msg string) int {
	return W.seen[msg]
}

//Messages returns the distinct messages given so far, sorted.
func (W *WarnOnce) Messages() []string {
	ret := make([]string, 0, len(W.seen))
	for k := range W.seen {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
