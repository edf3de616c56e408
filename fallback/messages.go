package fallback

import (
	"errors"
	"fmt"
	"time"

	"github.com/promptable/taskops/task"
)

// Error kind labels used in failure statistics.
const (
	kindCloudUnavailable = "cloud_unavailable"
	kindRateLimited      = "rate_limited"
	kindTimeout          = "timeout"
	kindInvalidResponse  = "invalid_response"
	kindCache            = "cache"
	kindInternal         = "internal"
	kindUnclassified     = "unclassified"
)

// errorKind buckets a failure cause for statistics.
func errorKind(err error) string {
	var rate *task.RateLimitError
	switch {
	case errors.As(err, &rate):
		return kindRateLimited
	case errors.Is(err, task.ErrCloudUnavailable):
		return kindCloudUnavailable
	case errors.Is(err, task.ErrTimeout):
		return kindTimeout
	case errors.Is(err, task.ErrInvalidCloudResponse):
		return kindInvalidResponse
	case errors.Is(err, task.ErrCache):
		return kindCache
	case errors.Is(err, task.ErrInternal):
		return kindInternal
	default:
		return kindUnclassified
	}
}

// friendlyMessage translates a failure cause into one plain sentence a user
// can act on. Unrecognized errors keep their description so the user has
// something concrete to report.
func friendlyMessage(err error) string {
	var rate *task.RateLimitError
	switch {
	case errors.As(err, &rate):
		return fmt.Sprintf("The service is handling a lot of requests right now. Please wait about %s and try again.", rate.WaitTime.Round(time.Second))
	case errors.Is(err, task.ErrCloudUnavailable):
		return "The cloud service isn't reachable at the moment, so this request can't be completed remotely."
	case errors.Is(err, task.ErrTimeout):
		return "That request took too long to complete and was stopped."
	case errors.Is(err, task.ErrInvalidCloudResponse):
		return "The cloud service sent back a response that couldn't be understood."
	case errors.Is(err, task.ErrCache):
		return "The response cache hit a problem while handling this request."
	case errors.Is(err, task.ErrInternal):
		return "An internal error interrupted this request."
	case err == nil:
		return "The request could not be completed."
	default:
		return fmt.Sprintf("Something went wrong while handling this request (%v).", err)
	}
}

// recoverySuggestions is appended to every terminal error response.
const recoverySuggestions = "\n\nYou can try:\n" +
	"  - Check your internet connection\n" +
	"  - Restart the app\n" +
	"  - Simplify your request"

// degradedMessage is the graceful-degradation response for a task type. It
// always produces something reassuring, never an error. Every variant says
// "right now" on purpose: that phrasing marks the response as time-sensitive,
// which keeps transient trouble out of the long-lived response cache.
func degradedMessage(t task.Type) string {
	switch t {
	case task.TypeTextProcessing:
		return "I can't process that text right now. Copying it into Notes and " +
			"editing by hand may be the quickest workaround until this recovers."
	case task.TypeWebQuery:
		return "I can't reach the web right now. Opening a browser and searching " +
			"directly will get the answer faster than waiting on me."
	case task.TypeCalculation:
		return "I can't run that calculation right now. Spotlight (Command-Space) " +
			"evaluates simple expressions instantly if it's urgent."
	default:
		return fmt.Sprintf("I'm having trouble completing this %s request right now. "+
			"The issue is usually temporary, so it's worth trying again shortly.", describeType(t))
	}
}

// describeType renders a task type as a human phrase for messages.
func describeType(t task.Type) string {
	switch t {
	case task.TypeFileOperation:
		return "file"
	case task.TypeAppControl:
		return "app control"
	case task.TypeSystemQuery:
		return "system information"
	case task.TypeTextProcessing:
		return "text"
	case task.TypeCalculation:
		return "calculation"
	case task.TypeWebQuery:
		return "web"
	case task.TypeAutomation:
		return "automation"
	case task.TypeHelp:
		return "help"
	default:
		return "general"
	}
}
