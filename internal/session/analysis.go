package session

// Analysis results arrive asynchronously. A monotonically increasing
// tag is issued per upload; a completion carrying a stale tag is
// discarded so a slow response for a replaced dataset can never
// clobber the current one.

// BeginAnalysis marks the start of an analysis round and returns the
// tag the eventual completion must present.
func (s *Session) BeginAnalysis() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysisTag++
	s.pendingTag = s.analysisTag
	return s.analysisTag
}

// CompleteAnalysis applies a finished report if its tag is still
// current. It reports whether the result was applied.
func (s *Session) CompleteAnalysis(tag uint64, rep *Report) bool {
	s.mu.Lock()
	if tag != s.pendingTag || s.source == nil {
		s.mu.Unlock()
		return false
	}
	s.pendingTag = 0
	s.report = rep
	u, subs := s.snapshotLocked()
	s.mu.Unlock()
	notify(subs, u)
	return true
}

// FailAnalysis handles an analysis error for the given tag. If the tag
// is current the session reverts to the pre-upload state; a stale
// failure is ignored.
func (s *Session) FailAnalysis(tag uint64) bool {
	s.mu.Lock()
	if tag != s.pendingTag {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()
	s.Reset()
	return true
}

// Report returns the most recently applied analysis result, or nil.
func (s *Session) Report() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}
