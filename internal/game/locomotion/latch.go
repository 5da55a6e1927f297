package locomotion

import "time"

// DefaultAttackDuration is how long one attack press keeps attacking true.
const DefaultAttackDuration = time.Second

// AttackLatch turns a press into a fixed-length attacking window measured on a
// monotonic clock. Presses during the window are ignored.
type AttackLatch struct {
	Duration time.Duration

	active bool
	start  time.Duration
}

// NewAttackLatch returns a latch of duration d, or DefaultAttackDuration if d <= 0.
func NewAttackLatch(d time.Duration) *AttackLatch {
	if d <= 0 {
		d = DefaultAttackDuration
	}
	return &AttackLatch{Duration: d}
}

// Update expires the window if it has run out, then latches on pressed.
// It returns whether the character is attacking at now.
func (l *AttackLatch) Update(now time.Duration, pressed bool) bool {
	if l.active && now-l.start >= l.Duration {
		l.active = false
	}
	if !l.active && pressed {
		l.active = true
		l.start = now
	}
	return l.active
}

// Active reports the latch state as of the last Update.
func (l *AttackLatch) Active() bool { return l.active }
