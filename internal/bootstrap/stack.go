package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/panehost/internal/app/command"
	"github.com/bnema/panehost/internal/application/usecase"
	"github.com/bnema/panehost/internal/config"
	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/bnema/panehost/internal/domain/geometry"
	"github.com/bnema/panehost/internal/infrastructure/bridge"
	"github.com/bnema/panehost/internal/infrastructure/eventbus"
	"github.com/bnema/panehost/internal/infrastructure/instrument"
	"github.com/bnema/panehost/internal/infrastructure/ipc"
	"github.com/bnema/panehost/internal/infrastructure/journal"
	"github.com/bnema/panehost/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/panehost/internal/logging"
)

// Stack is the assembled server. Journal, JournalDB and IPC are nil when
// disabled in the config.
type Stack struct {
	Platform   Platform
	Hub        *eventbus.Hub
	Relay      *usecase.RelayEventsUseCase
	Panes      *usecase.ManagePanesUseCase
	Router     *bridge.Router
	Dispatcher *command.Dispatcher
	Journal    *journal.Journal
	JournalDB  *sqlite.LazyDB
	IPC        *ipc.Server
}

// Build wires the use cases onto platform. Nothing is started.
func Build(ctx context.Context, cfg *config.Config, platform Platform) (*Stack, error) {
	policy, err := geometry.ParsePolicy(cfg.Geometry.Policy)
	if err != nil {
		return nil, err
	}
	mode, err := instrument.ParseMode(cfg.Instrumentation.Mode)
	if err != nil {
		return nil, err
	}
	heartbeat, err := cfg.Instrumentation.Heartbeat()
	if err != nil {
		return nil, err
	}
	builder, err := instrument.NewBuilder(instrument.Options{
		Mode:              mode,
		Target:            cfg.Relay.Target,
		HeartbeatInterval: heartbeat,
	})
	if err != nil {
		return nil, fmt.Errorf("instrumentation: %w", err)
	}

	s := &Stack{Platform: platform}
	s.Hub = eventbus.NewHub(logging.WithComponent(ctx, "eventbus"))
	s.Relay = usecase.NewRelayEventsUseCase(s.Hub, cfg.Relay.Target)
	s.Panes = usecase.NewManagePanesUseCase(
		platform.Host(),
		platform.UI(),
		geometry.NewTransformer(policy),
		builder,
		s.Relay,
	)

	s.Router = bridge.NewRouter()
	s.Router.Handle(entity.EventPaneTelemetry, s.Relay.HandleScriptMessage)
	s.Router.HandleDefault(s.Relay.HandleScriptMessage)
	s.Panes.SetScriptMessageHandler(s.Router.Route)

	s.Dispatcher = command.NewDispatcher(s.Panes)

	if cfg.Journal.Enabled {
		if err := s.buildJournal(logging.WithComponent(ctx, "journal"), cfg.Journal); err != nil {
			return nil, err
		}
	}

	if cfg.IPC.Enabled {
		s.IPC = ipc.NewServer(logging.WithComponent(ctx, "ipc"), ipc.Options{
			SocketPath:   cfg.IPC.SocketPath,
			StreamBuffer: cfg.IPC.StreamBuffer,
		}, s.Dispatcher, s.Hub)
	}

	return s, nil
}

func (s *Stack) buildJournal(ctx context.Context, cfg config.JournalConfig) error {
	retention, err := cfg.RetentionDuration()
	if err != nil {
		return err
	}
	flush, err := cfg.FlushDuration()
	if err != nil {
		return err
	}

	s.JournalDB = sqlite.NewLazyDB(cfg.Path)
	s.Journal = journal.New(ctx, s.JournalDB, journal.Options{
		BatchSize:     cfg.BatchSize,
		FlushInterval: flush,
		Retention:     retention,
	})
	s.Journal.Attach(s.Hub)
	return nil
}

// DispatchJSON runs one encoded command.
func (s *Stack) DispatchJSON(ctx context.Context, raw []byte) []byte {
	return s.Dispatcher.DispatchJSON(ctx, raw)
}

// Subscribe registers handler for events addressed to window.
func (s *Stack) Subscribe(window string, handler eventbus.Handler) string {
	return s.Hub.Subscribe(window, handler)
}

// Unsubscribe removes a subscription made through Subscribe.
func (s *Stack) Unsubscribe(id string) bool {
	return s.Hub.Unsubscribe(id)
}

// Start opens the control socket.
func (s *Stack) Start() error {
	if s.IPC == nil {
		return nil
	}
	if err := s.IPC.Start(); err != nil {
		return fmt.Errorf("control socket: %w", err)
	}
	return nil
}

// ClosePanes stops accepting control connections and closes every pane. The
// UI thread must still be running.
func (s *Stack) ClosePanes(ctx context.Context) error {
	var errs []error
	if s.IPC != nil {
		if err := s.IPC.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close control socket: %w", err))
		}
	}
	if err := s.Panes.CloseAll(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close panes: %w", err))
	}
	return errors.Join(errs...)
}

// Shutdown releases everything that does not need the UI thread: the control
// socket if still open, the journal and its database. Errors are joined.
func (s *Stack) Shutdown(ctx context.Context) error {
	log := logging.FromContext(ctx)
	var errs []error

	if s.IPC != nil {
		if err := s.IPC.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close control socket: %w", err))
		}
	}
	if s.Journal != nil {
		if err := s.Journal.Close(); err != nil && !errors.Is(err, journal.ErrClosed) {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
		log.Debug().
			Uint64("written", s.Journal.Written()).
			Uint64("dropped", s.Journal.Dropped()).
			Msg("journal closed")
	}
	if s.JournalDB != nil {
		if err := s.JournalDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal database: %w", err))
		}
	}
	if dropped := s.Relay.Dropped(); dropped > 0 {
		log.Info().Uint64("dropped", dropped).Msg("relay dropped unknown telemetry")
	}
	return errors.Join(errs...)
}
