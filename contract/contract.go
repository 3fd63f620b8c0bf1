//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"coffeetalk/domain"
)

// Directory is the platform collaborator the core depends on. Every call is
// a suspension point and must honour ctx deadlines; adapters translate
// platform error signals onto the sentinels in coffeetalk/errors so callers
// can pattern-match with errors.Is.
type Directory interface {
	LookupChannelByName(ctx context.Context, name string) (domain.Channel, error)
	GetChannel(ctx context.Context, channelID string) (domain.Channel, error)
	CreateChannel(ctx context.Context, name string, private bool) (domain.Channel, error)
	InviteUser(ctx context.Context, channelID, userID string) error
	JoinChannel(ctx context.Context, channelID string) error
	PostMessage(ctx context.Context, targetID, text string) error
	DeleteMessage(ctx context.Context, channelID, timestamp string) error
	GetUser(ctx context.Context, userID string) (domain.User, error)
	ListMembers(ctx context.Context) ([]domain.User, error)
	OpenDirectMessage(ctx context.Context, userID string) (string, error)

	// BotUserID identifies the bot's own directory account, resolved once at
	// connection time. Needed so enforcement never turns on the bot itself.
	BotUserID() string
}

// Notifier sends the human-facing side effects. All methods are best effort:
// failures are surfaced for logging, never retried.
type Notifier interface {
	WarnNonOwner(ctx context.Context, userID string, channel domain.Channel) error
	Welcome(ctx context.Context, channel domain.Channel, owner domain.User) error
	Onboard(ctx context.Context, user domain.User) error
}

// OnboardingLog remembers which members already received their one-time
// onboarding notice.
type OnboardingLog interface {
	Seen(userID string) (bool, error)
	Record(userID string) error
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
