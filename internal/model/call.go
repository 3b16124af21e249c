package model

import "net/url"

// SayTwiml is the markup Twilio speaks to the callee. It never varies.
const SayTwiml = "<Response><Say>This is a test call from your matcha stock bot.</Say></Response>"

type CallStatus string

const (
	CallStatusQueued     CallStatus = "queued"
	CallStatusRinging    CallStatus = "ringing"
	CallStatusInProgress CallStatus = "in-progress"
	CallStatusCompleted  CallStatus = "completed"
	CallStatusBusy       CallStatus = "busy"
	CallStatusFailed     CallStatus = "failed"
	CallStatusNoAnswer   CallStatus = "no-answer"
	CallStatusCanceled   CallStatus = "canceled"
)

func (s CallStatus) String() string { return string(s) }

func (s CallStatus) Valid() bool {
	switch s {
	case CallStatusQueued, CallStatusRinging, CallStatusInProgress, CallStatusCompleted,
		CallStatusBusy, CallStatusFailed, CallStatusNoAnswer, CallStatusCanceled:
		return true
	default:
		return false
	}
}

// Call is the form payload for POST /Accounts/{sid}/Calls.json.
type Call struct {
	To    string
	From  string
	Twiml string
}

// NewCall builds the test call. Numbers are passed through untouched, empty included.
func NewCall(to, from string) Call {
	return Call{To: to, From: from, Twiml: SayTwiml}
}

// Form returns exactly the To, From and Twiml fields.
func (c Call) Form() url.Values {
	return url.Values{
		"To":    {c.To},
		"From":  {c.From},
		"Twiml": {c.Twiml},
	}
}

// CallResponse is what the provider answered, whatever the status code.
type CallResponse struct {
	StatusCode int
	Body       any // decoded JSON value
}

// SID returns the call resource sid, or "" for error bodies.
func (r CallResponse) SID() string {
	return r.field("sid")
}

// Status returns the call resource status, or "" for error bodies.
func (r CallResponse) Status() CallStatus {
	return CallStatus(r.field("status"))
}

func (r CallResponse) field(name string) string {
	obj, ok := r.Body.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := obj[name].(string)
	return s
}
