package model

import "strconv"

// ActivationCode is a redeemable token managed by the remote code API.
// RemainingDays is the only expiry indicator the console understands.
type ActivationCode struct {
	ID            int64   `json:"id"`
	Code          string  `json:"code"`
	Name          *string `json:"name"`
	Active        bool    `json:"active"`
	RemainingDays *int    `json:"remaining_days"`
	UsageLimit    *int    `json:"usage_limit"`
	UsageCount    *int    `json:"usage_count,omitempty"`
}

// DisplayName returns the label or "" when none was given.
func (c *ActivationCode) DisplayName() string {
	if c.Name == nil {
		return ""
	}
	return *c.Name
}

// ExpiryText returns the remaining days, or "-" when the code never expires.
func (c *ActivationCode) ExpiryText() string {
	if c.RemainingDays == nil {
		return "-"
	}
	return strconv.Itoa(*c.RemainingDays)
}

// UsageText renders "count/limit" for limited codes, the bare count when
// only that is known, and "-" otherwise.
func (c *ActivationCode) UsageText() string {
	count := 0
	if c.UsageCount != nil {
		count = *c.UsageCount
	}
	switch {
	case c.UsageLimit != nil:
		return strconv.Itoa(count) + "/" + strconv.Itoa(*c.UsageLimit)
	case c.UsageCount != nil:
		return strconv.Itoa(count)
	default:
		return "-"
	}
}

// GenerateRequest is the body of a creation call. Nil fields are sent as JSON null.
type GenerateRequest struct {
	Name       *string `json:"name"`
	Days       *int    `json:"days"`
	UsageLimit *int    `json:"usage_limit"`
}

// GenerateResponse carries the token the server issued.
type GenerateResponse struct {
	Code string `json:"code"`
}
