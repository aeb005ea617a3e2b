// Package session implements the turn-based game session: the roster of at most
// two participants, the board, turn order, win and tie detection, and the
// personalized state broadcast.
//
// A Session cycles recruiting -> playing -> recruiting for the lifetime of the
// process. All of its state is owned by its Loop; the exported methods only post
// events to it.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
)

const (
	tracerName          = "github.com/rocketscienceinc/tictactoe-tcp/internal/session"
	defaultStoreTimeout = 2 * time.Second
)

// StatusRepository mirrors the live state of a session somewhere outside the process.
type StatusRepository interface {
	CreateOrUpdate(ctx context.Context, status *entity.SessionStatus) error
	DeleteByPort(ctx context.Context, port int) error
}

type Config struct {
	Port int
	// WithBot seats a bot as Player2 as soon as one participant is admitted.
	WithBot bool
	// StoreTimeout bounds each StatusRepository call.
	StoreTimeout time.Duration
}

type seat struct {
	participant Participant
	role        entity.Owner
}

type Session struct {
	logger    *slog.Logger
	mirror    *statusMirror
	tracer    trace.Tracer
	loop      *Loop
	admission chan struct{}

	port    int
	withBot bool

	state  entity.State
	roster []seat
	game   trace.Span
}

// New - creates a recruiting session. statusRepo may be nil.
func New(logger *slog.Logger, conf Config, statusRepo StatusRepository) *Session {
	storeTimeout := conf.StoreTimeout
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}

	that := &Session{
		logger:    logger.With("component", "session", "port", conf.Port),
		mirror:    newStatusMirror(logger, statusRepo, conf.Port, storeTimeout),
		tracer:    otel.Tracer(tracerName),
		loop:      NewLoop(),
		admission: make(chan struct{}, 1),

		port:    conf.Port,
		withBot: conf.WithBot,

		state: entity.NewState(),
	}

	that.offerAdmission()

	return that
}

func (that *Session) Port() int {
	return that.port
}

// Run - dispatches session events until ctx is canceled.
// Status mirroring runs beside the loop and never holds it up.
func (that *Session) Run(ctx context.Context) error {
	go that.mirror.run(ctx)

	return that.loop.Run(ctx)
}

// Admission - yields one token each time the session has room for another participant.
// The listener accepts exactly one connection per token.
func (that *Session) Admission() <-chan struct{} {
	return that.admission
}

// Join - asks the session to admit participant.
func (that *Session) Join(participant Participant) {
	that.loop.Post(func() { that.addParticipant(participant) })
}

// Leave - tells the session participant is gone.
func (that *Session) Leave(participant Participant) {
	that.loop.Post(func() { that.removeParticipant(participant) })
}

// Move - submits a move on behalf of participant.
func (that *Session) Move(participant Participant, x, y int) {
	that.loop.Post(func() { that.tryMove(participant, x, y) })
}

// Status - returns a snapshot taken inside the session loop.
func (that *Session) Status(ctx context.Context) (*entity.SessionStatus, error) {
	result := make(chan *entity.SessionStatus, 1)
	that.loop.Post(func() { result <- that.snapshot() })

	select {
	case status := <-result:
		return status, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to get session status: %w", ctx.Err())
	}
}

// lookingForPlayers is true while recruiting: no game running and a seat still free.
func (that *Session) lookingForPlayers() bool {
	return !that.state.Playing && len(that.roster) != entity.NumberOfPlayers
}

func (that *Session) addParticipant(participant Participant) {
	log := that.logger.With("method", "addParticipant", "participant", participant.ID())

	if that.inGame(participant) {
		return
	}

	if !that.lookingForPlayers() {
		log.Warn("rejecting participant", "error", apperror.ErrSessionFull)
		participant.Close()

		return
	}

	that.takeSeat(participant)

	if that.withBot && len(that.roster) == 1 {
		that.takeSeat(NewBot(that))
	}

	that.tryStartGame()
	that.offerAdmission()
}

func (that *Session) takeSeat(participant Participant) {
	role := entity.Player1
	if len(that.roster) > 0 {
		that.roster[0].role = entity.Player1
		role = entity.Player2
	}

	that.roster = append(that.roster, seat{participant: participant, role: role})

	that.logger.Info("A player joined the game", "participant", participant.ID(), "role", role.String())

	participant.Start()
}

func (that *Session) removeParticipant(participant Participant) {
	if !that.inGame(participant) {
		return
	}

	if that.state.Playing {
		role := that.roleOf(participant)
		that.logger.Info(fmt.Sprintf("Player %d quitted", role.Number()), "participant", participant.ID())

		if that.game != nil {
			that.game.SetAttributes(attribute.Bool("aborted", true))
		}

		that.endGame()

		return
	}

	that.logger.Info("A player left the game", "participant", participant.ID())

	participant.Close()

	for i, s := range that.roster {
		if s.participant == participant {
			that.roster = append(that.roster[:i], that.roster[i+1:]...)
			break
		}
	}

	that.offerAdmission()
}

func (that *Session) tryMove(participant Participant, x, y int) {
	log := that.logger.With("method", "tryMove", "participant", participant.ID())

	if !that.state.Playing {
		return
	}

	role := that.roleOf(participant)
	if role == entity.None {
		log.Debug("move ignored", "error", apperror.ErrNotInGame)
		return
	}

	if err := that.state.Claim(role, x, y); err != nil {
		log.Debug("move ignored", "error", err, "x", x, "y", y)
		return
	}

	that.logger.Info(fmt.Sprintf("Player %d gets cell %d, %d", role.Number(), x, y))

	if that.game != nil {
		that.game.AddEvent("move", trace.WithAttributes(
			attribute.Int("player", role.Number()),
			attribute.Int("x", x),
			attribute.Int("y", y),
		))
	}

	if that.state.Playing {
		that.logWaiting()
		that.deliverGameState()

		return
	}

	that.deliverGameState()

	if that.state.Winner == entity.None {
		that.logger.Info("Players tied!")
	} else {
		that.logger.Info(fmt.Sprintf("Player %d wins!", that.state.Winner.Number()))
	}

	if that.game != nil {
		that.game.SetAttributes(attribute.Int("winner", int(that.state.Winner)))
	}

	that.endGame()
}

func (that *Session) tryStartGame() {
	if !that.state.Playing && !that.lookingForPlayers() {
		that.startGame()
	}
}

func (that *Session) startGame() {
	if that.lookingForPlayers() {
		panic(apperror.ErrGameNeedsPlayers)
	}

	that.logger.Info("Game started!")

	that.state.Start()
	_, that.game = that.tracer.Start(context.Background(), "game",
		trace.WithAttributes(attribute.Int("port", that.port)),
	)

	that.logWaiting()
	that.deliverGameState()
}

// endGame closes every participant and puts the session back to recruiting.
func (that *Session) endGame() {
	if that.lookingForPlayers() {
		panic(apperror.ErrNoGameToEnd)
	}

	that.logger.Info("Game over")

	that.state.Playing = false

	for _, s := range that.roster {
		s.participant.Close()
	}
	that.roster = nil

	if that.game != nil {
		that.game.End()
		that.game = nil
	}

	that.mirror.remove()
	that.offerAdmission()
}

// deliverGameState sends each participant its own copy of the state.
func (that *Session) deliverGameState() {
	if that.lookingForPlayers() {
		return
	}

	log := that.logger.With("method", "deliverGameState")

	for _, s := range that.roster {
		body, err := protocol.EncodeUpdate(protocol.NewUpdate(that.state, s.role))
		if err != nil {
			log.Error("failed to encode update", "error", err)
			continue
		}

		frame, err := protocol.EncodeFrame(body)
		if err != nil {
			log.Error("failed to encode frame", "error", err)
			continue
		}

		s.participant.Deliver(frame)
	}

	that.mirror.save(that.snapshot())
}

func (that *Session) offerAdmission() {
	if !that.lookingForPlayers() {
		return
	}

	select {
	case that.admission <- struct{}{}:
	default:
	}
}

func (that *Session) logWaiting() {
	that.logger.Info(fmt.Sprintf("Waiting for Player %d to move", that.state.CurrentPlayer.Number()))
}

func (that *Session) inGame(participant Participant) bool {
	return that.roleOf(participant) != entity.None
}

func (that *Session) roleOf(participant Participant) entity.Owner {
	for _, s := range that.roster {
		if s.participant == participant {
			return s.role
		}
	}

	return entity.None
}

func (that *Session) snapshot() *entity.SessionStatus {
	status := &entity.SessionStatus{
		Port:          that.port,
		Recruiting:    that.lookingForPlayers(),
		Playing:       that.state.Playing,
		Players:       make([]entity.Player, 0, len(that.roster)),
		CurrentPlayer: that.state.CurrentPlayer,
		Winner:        that.state.Winner,
		Board:         that.state.Board,
	}

	for _, s := range that.roster {
		status.Players = append(status.Players, entity.Player{ID: s.participant.ID(), Role: s.role})
	}

	return status
}
