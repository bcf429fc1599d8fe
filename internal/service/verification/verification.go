// Package verification manages the 6-slot one-time-code entry surface used
// during password recovery: slot focus behavior, the resend cooldown ticker,
// and packaging the completed code for the reset call. The code itself is
// validated downstream by the reset endpoint, not here.
package verification

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Slots is the number of code digits.
const Slots = 6

// DefaultCooldownSeconds is the resend cooldown started on mount and after
// every successful resend.
const DefaultCooldownSeconds = 60

// Submission is the packaged payload handed to the password-reset stage.
type Submission struct {
	Email string
	Code  string
}

// API is the slice of the backend client used for resending codes.
type API interface {
	RequestPasswordReset(ctx context.Context, email string) error
}

type Config struct {
	// CooldownSeconds overrides DefaultCooldownSeconds when positive.
	CooldownSeconds int

	// TickInterval is the wall-clock duration of one cooldown tick.
	// Defaults to one second; tests shorten it.
	TickInterval time.Duration

	Logger *slog.Logger
}

// Controller owns one code-entry screen's state. Start begins the cooldown
// ticker and Stop must be called on teardown; the ticker must never outlive
// its owning screen.
type Controller struct {
	api       API
	email     string
	cooldown  int
	tickEvery time.Duration
	logger    *slog.Logger

	mu        sync.Mutex
	digits    [Slots]string
	remaining int
	focus     int
	stop      chan struct{}
}

func New(client API, email string, cfg Config) *Controller {
	c := &Controller{
		api:       client,
		email:     email,
		cooldown:  cfg.CooldownSeconds,
		tickEvery: cfg.TickInterval,
		logger:    cfg.Logger,
	}
	if c.cooldown <= 0 {
		c.cooldown = DefaultCooldownSeconds
	}
	if c.tickEvery <= 0 {
		c.tickEvery = time.Second
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Start begins the cooldown at the configured duration and launches the
// ticker. Calling Start on a running controller is a no-op.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.stop != nil {
		c.mu.Unlock()
		return
	}
	c.remaining = c.cooldown
	c.stop = make(chan struct{})
	stop := c.stop
	c.mu.Unlock()

	go c.run(stop)
}

// Stop cancels the ticker. It is idempotent and safe to call from any exit
// path, including teardown after an error.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Controller) run(stop chan struct{}) {
	t := time.NewTicker(c.tickEvery)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			c.tick()
		}
	}
}

// tick decrements the cooldown by one second, stopping at zero.
func (c *Controller) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining > 0 {
		c.remaining--
	}
}

// SetDigit stores a character at slot i and returns the new focus index.
// When several characters arrive at once (paste), only the last is kept.
// Entering a digit at any slot but the final one advances focus.
func (c *Controller) SetDigit(i int, value string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= Slots {
		return c.focus
	}

	c.digits[i] = lastChar(value)
	if c.digits[i] != "" && i < Slots-1 {
		c.focus = i + 1
	} else {
		c.focus = i
	}
	return c.focus
}

// Backspace clears slot i; on an already-empty slot it steps focus back
// instead, matching the delete-and-step-back entry contract.
func (c *Controller) Backspace(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= Slots {
		return c.focus
	}

	if c.digits[i] == "" {
		if i > 0 {
			c.focus = i - 1
		}
		return c.focus
	}
	c.digits[i] = ""
	c.focus = i
	return c.focus
}

// Code returns the concatenated 6-character code, or ErrCodeIncomplete if
// any slot is still empty.
func (c *Controller) Code() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var code string
	for _, d := range c.digits {
		if d == "" {
			return "", ErrCodeIncomplete
		}
		code += d
	}
	return code, nil
}

// Submit packages the complete code with the session email. It issues no
// network call; the reset endpoint that follows validates the code.
func (c *Controller) Submit() (Submission, error) {
	code, err := c.Code()
	if err != nil {
		return Submission{}, err
	}
	return Submission{Email: c.email, Code: code}, nil
}

// Resend requests a fresh code. While the cooldown is still running this is
// a deliberate no-op. The UI disables the control, but the controller does
// not trust it. On success the cooldown restarts and all slots are cleared.
func (c *Controller) Resend(ctx context.Context) error {
	c.mu.Lock()
	if c.remaining > 0 {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := c.api.RequestPasswordReset(ctx, c.email); err != nil {
		return err
	}

	c.mu.Lock()
	c.remaining = c.cooldown
	c.digits = [Slots]string{}
	c.focus = 0
	c.mu.Unlock()

	c.logger.Info("verification code resent", "email", c.email)
	return nil
}

// Remaining returns the cooldown seconds left.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// CanResend reports whether the cooldown has expired.
func (c *Controller) CanResend() bool {
	return c.Remaining() == 0
}

// Digits returns a snapshot of the slot contents.
func (c *Controller) Digits() [Slots]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.digits
}

// Focus returns the current input focus index.
func (c *Controller) Focus() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focus
}

// Email returns the address this session belongs to.
func (c *Controller) Email() string {
	return c.email
}

func lastChar(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return ""
	}
	return string(runes[len(runes)-1])
}
