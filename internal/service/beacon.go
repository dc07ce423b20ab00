package service

import (
	"context"
	"errors"
	"strings"

	"sprint_beacon/internal/codec"
	"sprint_beacon/internal/link"
	"sprint_beacon/internal/logger"
	"sprint_beacon/internal/loop"
	"sprint_beacon/internal/models"
)

var (
	ErrNotConnected     = errors.New("beacon is not connected")
	ErrCommandDropped   = errors.New("command could not be written to the beacon")
	ErrAlreadyConnected = errors.New("beacon link is already open")
	ErrNoAddress        = errors.New("no beacon address given and none configured")
)

// BeaconService hops every call onto the event loop.
type BeaconService struct {
	exec    loop.Executor
	ctl     Controller
	journal *Journal
	address string
	log     *logger.Logger
}

func NewBeaconService(exec loop.Executor, ctl Controller, journal *Journal, defaultAddress string, log *logger.Logger) *BeaconService {
	return &BeaconService{
		exec:    exec,
		ctl:     ctl,
		journal: journal,
		address: strings.TrimSpace(defaultAddress),
		log:     logger.OrNop(log).Named("beacon"),
	}
}

// Connect starts a connection attempt. An empty address uses the configured one.
func (s *BeaconService) Connect(ctx context.Context, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		address = s.address
	}
	if address == "" {
		return ErrNoAddress
	}
	var err error
	if doErr := s.exec.Do(ctx, func() { err = s.ctl.Connect(address) }); doErr != nil {
		return doErr
	}
	switch {
	case errors.Is(err, link.ErrAlreadyConnected):
		return ErrAlreadyConnected
	case errors.Is(err, link.ErrNoAddress):
		return ErrNoAddress
	}
	return err
}

func (s *BeaconService) Disconnect(ctx context.Context) error {
	return s.exec.Do(ctx, s.ctl.Disconnect)
}

func (s *BeaconService) Arm(ctx context.Context) error {
	return s.send(ctx, codec.Arm())
}

func (s *BeaconService) SetLaser(ctx context.Context, on bool) error {
	return s.send(ctx, codec.Laser(on))
}

func (s *BeaconService) SetAuto(ctx context.Context, on bool) error {
	return s.send(ctx, codec.Auto(on))
}

func (s *BeaconService) send(ctx context.Context, cmd codec.Command) error {
	var err error
	doErr := s.exec.Do(ctx, func() {
		if s.ctl.State() != link.Ready {
			err = ErrNotConnected
			return
		}
		if !s.ctl.Send(cmd) {
			err = ErrCommandDropped
		}
	})
	if doErr != nil {
		return doErr
	}
	if err != nil {
		s.log.Infow("command_rejected", "command", cmd.String(), "err", err)
		return err
	}
	s.journal.Record(models.EventCommand, "Command sent: "+cmd.String(), map[string]any{
		"command": cmd.String(),
	})
	return nil
}
