// Package activitymap converts access activity events into a
// transport-agnostic shape downstream audit and analytics systems consume.
package activitymap

import (
	"strings"
	"time"

	access "github.com/mindcare/go-access"
)

const (
	// MetadataKeyRole stores the resolved role for session events.
	MetadataKeyRole = "role"
	// MetadataKeyEmail stores the account email for provisioning events.
	MetadataKeyEmail = "email"
)

const (
	defaultChannel    = "access"
	defaultObjectType = "identity"
	defaultActorID    = "system"
)

// Normalized is a transport-agnostic activity shape for downstream systems.
type Normalized struct {
	ActorID    string         `json:"actor_id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type,omitempty"`
	ObjectID   string         `json:"object_id,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Option customizes normalization behavior.
type Option func(*normalizeOptions)

type normalizeOptions struct {
	channel       string
	objectType    string
	actorFallback string
	now           func() time.Time
}

// WithChannel overrides the default channel.
func WithChannel(channel string) Option {
	return func(o *normalizeOptions) {
		if channel != "" {
			o.channel = channel
		}
	}
}

// WithObjectType overrides the default object type.
func WithObjectType(objectType string) Option {
	return func(o *normalizeOptions) {
		if objectType != "" {
			o.objectType = objectType
		}
	}
}

// WithActorFallback sets the actor id used when the event has none.
func WithActorFallback(actorID string) Option {
	return func(o *normalizeOptions) {
		if actorID != "" {
			o.actorFallback = actorID
		}
	}
}

func defaultNormalizeOptions() normalizeOptions {
	return normalizeOptions{
		channel:       defaultChannel,
		objectType:    defaultObjectType,
		actorFallback: defaultActorID,
		now:           time.Now,
	}
}

// Normalize converts an access.ActivityEvent into a generic normalized shape.
func Normalize(event access.ActivityEvent, opts ...Option) Normalized {
	options := defaultNormalizeOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	actorID := strings.TrimSpace(event.IdentityID)
	if actorID == "" {
		actorID = options.actorFallback
	}

	metadata := make(map[string]any, len(event.Metadata)+1)
	for k, v := range event.Metadata {
		metadata[k] = v
	}
	if event.Role != "" {
		metadata[MetadataKeyRole] = event.Role
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = options.now()
	}

	return Normalized{
		ActorID:    actorID,
		Verb:       verbFor(event.EventType),
		ObjectType: options.objectType,
		ObjectID:   strings.TrimSpace(event.IdentityID),
		Channel:    options.channel,
		Metadata:   metadata,
		OccurredAt: occurredAt,
	}
}

// verbFor maps event types onto short past-tense verbs. Unknown types pass
// through untouched so new events degrade gracefully.
func verbFor(eventType access.ActivityEventType) string {
	switch eventType {
	case access.ActivityEventSignedIn:
		return "signed_in"
	case access.ActivityEventSignedOut:
		return "signed_out"
	case access.ActivityEventRoleResolved:
		return "role_resolved"
	case access.ActivityEventRoleResolveFailed:
		return "role_resolution_failed"
	case access.ActivityEventLoginSuccess:
		return "logged_in"
	case access.ActivityEventLoginFailure:
		return "login_failed"
	case access.ActivityEventProvisionSuccess:
		return "account_provisioned"
	case access.ActivityEventProvisionPreexist:
		return "account_preexisting"
	case access.ActivityEventProvisionFailure:
		return "provisioning_failed"
	default:
		return string(eventType)
	}
}
