package model

import "time"

// AuthContext is the authentication context an acquisition attempt runs under.
type AuthContext string

const (
	// AuthNone runs the download anonymously.
	AuthNone AuthContext = "none"
	// AuthFirefoxCookies reuses the stored cookies of a Firefox profile.
	AuthFirefoxCookies AuthContext = "cookies-from-firefox"
	// AuthChromeCookies reuses the stored cookies of a Chrome profile.
	AuthChromeCookies AuthContext = "cookies-from-chrome"
)

// AuthForBrowser returns the cookie auth context backed by a browser kind.
func AuthForBrowser(kind BrowserKind) AuthContext {
	switch kind {
	case BrowserFirefox:
		return AuthFirefoxCookies
	case BrowserChrome:
		return AuthChromeCookies
	default:
		return AuthNone
	}
}

// OutcomeClass is the failure class reported by the downloading backend.
type OutcomeClass string

const (
	// ClassSuccess means the artifact was produced.
	ClassSuccess OutcomeClass = "success"
	// ClassAuthRequired means the host asked for a signed-in session.
	ClassAuthRequired OutcomeClass = "auth-required"
	// ClassForbidden means the host refused access (HTTP 403, soft ban).
	ClassForbidden OutcomeClass = "forbidden"
	// ClassTransient covers network errors and timeouts.
	ClassTransient OutcomeClass = "transient-network"
	// ClassUnsupported means no usable format exists for the URL.
	ClassUnsupported OutcomeClass = "unsupported-format"
)

// IsAuthFailure reports whether the class should advance the strategy ladder.
func (c OutcomeClass) IsAuthFailure() bool {
	return c == ClassAuthRequired || c == ClassForbidden
}

// Outcome is the coarse result of a single attempt.
type Outcome string

const (
	// OutcomeSuccess means the attempt produced an artifact.
	OutcomeSuccess Outcome = "success"
	// OutcomeRetryable means the same strategy may be tried again.
	OutcomeRetryable Outcome = "retryable-failure"
	// OutcomeFatal means the strategy (or the URL) cannot succeed by retrying.
	OutcomeFatal Outcome = "fatal-failure"
)

// OutcomeOf maps a backend class onto an attempt outcome.
func OutcomeOf(c OutcomeClass) Outcome {
	switch c {
	case ClassSuccess:
		return OutcomeSuccess
	case ClassTransient:
		return OutcomeRetryable
	default:
		return OutcomeFatal
	}
}

// State is the orchestrator state of one URL.
type State string

const (
	// StatePending means no attempt has been made yet (or the batch was stopped first).
	StatePending State = "pending"
	// StateTrying means an attempt is in flight.
	StateTrying State = "trying"
	// StateSucceeded is terminal: an artifact was produced.
	StateSucceeded State = "succeeded"
	// StateFailed is terminal: the URL could not be acquired.
	StateFailed State = "failed"
)

// IsTerminal reports whether no further transitions can happen.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// AcquisitionAttempt is one backend invocation for one URL.
type AcquisitionAttempt struct {
	URL           string        `json:"url"`
	StrategyIndex int           `json:"strategy_index"`
	Auth          AuthContext   `json:"auth"`
	Try           int           `json:"try"`
	Outcome       Outcome       `json:"outcome"`
	Class         OutcomeClass  `json:"class"`
	Message       string        `json:"message,omitempty"`
	Duration      time.Duration `json:"duration"`
}

// AcquisitionResult is the final record for one URL.
type AcquisitionResult struct {
	// URL is the acquired link.
	URL string `json:"url"`

	// ContentID is the stable content identifier (e.g. a video id).
	ContentID string `json:"content_id,omitempty"`

	// State is the final state: succeeded, failed or pending (never started).
	State State `json:"state"`

	// Attempts is the full attempt history in order.
	Attempts []AcquisitionAttempt `json:"attempts"`

	// ArtifactPath is the produced local file, empty unless State is succeeded.
	ArtifactPath string `json:"artifact_path,omitempty"`

	// Error describes why the URL failed or was left pending.
	Error string `json:"error,omitempty"`

	// Archived is true when the content was already in the download
	// archive and no attempt was made.
	Archived bool `json:"archived,omitempty"`
}

// AttemptCount returns the number of attempts taken.
func (r AcquisitionResult) AttemptCount() int {
	return len(r.Attempts)
}
