package domain

import (
	"fmt"
	"time"
)

// ProbeNames lists configured probe names in order.
func (c *Config) ProbeNames() []string {
	names := make([]string, 0, len(c.Probes))
	for _, p := range c.Probes {
		names = append(names, p.Name)
	}
	return names
}

// FindProbe searches for a probe by its name.
func (c *Config) FindProbe(name string) (ProbeConfig, bool) {
	for _, p := range c.Probes {
		if p.Name == name {
			return p, true
		}
	}
	return ProbeConfig{}, false
}

// CheckUniqueProbeNames returns ErrDuplicateProbeName naming the first repeat.
func (c *Config) CheckUniqueProbeNames() error {
	seen := make(map[string]struct{}, len(c.Probes))
	for _, p := range c.Probes {
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateProbeName, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// ReminderPolicy derives the continuing-failure policy from the notification
// settings. Without a configured interval reminders are off.
func (c *Config) ReminderPolicy() ReminderPolicy {
	if c.Notifications == nil || c.Notifications.MinutesBetweenContinuousFail == nil {
		return ReminderPolicy{}
	}
	d := time.Duration(*c.Notifications.MinutesBetweenContinuousFail) * time.Minute
	return ReminderPolicy{Cooldown: &d}
}

// NotifyRecoveries reports whether recoveries should be notified.
func (c *Config) NotifyRecoveries() bool {
	return c.Notifications != nil && c.Notifications.NotifyOnSuccessAfterFailure
}

// TimeoutDuration returns the probe timeout, falling back to the default.
func (p ProbeConfig) TimeoutDuration() time.Duration {
	if p.Timeout == 0 {
		return time.Duration(DefaultProbeTimeoutSeconds) * time.Second
	}
	return time.Duration(p.Timeout) * time.Second
}

// TimeoutSeconds returns the effective timeout in seconds.
func (p ProbeConfig) TimeoutSeconds() uint16 {
	if p.Timeout == 0 {
		return DefaultProbeTimeoutSeconds
	}
	return p.Timeout
}
