package workout

// Tick advances the live clocks by one second. The caller owns the ticker;
// one call per wall-clock second. Elapsed time accumulates only while the
// timer is running, the rest countdown runs independently of it. Ticks
// publish snapshots so subscribers can persist the running clocks, but they
// leave the session's UpdatedAt stamp to real edits.
func (t *Tracker) Tick() {
	var countdown, alarm bool
	t.tickMutate(func() bool {
		if t.session == nil {
			return false
		}
		changed := false
		if t.timerRunning {
			t.elapsedSeconds++
			changed = true
		}
		if t.isResting && t.restRemaining > 0 {
			t.restRemaining--
			changed = true
			switch {
			case t.restRemaining == 0:
				t.isResting = false
				alarm = true
			case t.restRemaining <= 3:
				countdown = true
			}
		}
		return changed
	})
	if countdown {
		t.cues.CountdownBeep()
	}
	if alarm {
		t.cues.RestComplete()
	}
}

// StartRest begins (or re-anchors) the rest countdown at the given duration.
// A non-positive duration falls back to the configured default.
func (t *Tracker) StartRest(seconds int) {
	t.mutate(func() bool {
		if t.session == nil {
			return false
		}
		t.startRestLocked(seconds)
		return true
	})
}

func (t *Tracker) startRestLocked(seconds int) {
	if seconds <= 0 {
		seconds = t.cfg.DefaultRestSeconds
	}
	t.isResting = true
	t.restRemaining = seconds
	t.restTarget = seconds
}

// AdjustRest shifts an active countdown by delta seconds. Both the remaining
// time and the target re-anchor to the new value, floored at MinRestSeconds,
// so a later progress display stays consistent.
func (t *Tracker) AdjustRest(delta int) {
	t.mutate(func() bool {
		if t.session == nil || !t.isResting {
			return false
		}
		v := t.restRemaining + delta
		if v < MinRestSeconds {
			v = MinRestSeconds
		}
		t.restRemaining = v
		t.restTarget = v
		return true
	})
}

// StopRest cancels the countdown without a cue.
func (t *Tracker) StopRest() {
	t.mutate(func() bool {
		if t.session == nil || !t.isResting {
			return false
		}
		t.isResting = false
		t.restRemaining = 0
		t.restTarget = 0
		return true
	})
}
