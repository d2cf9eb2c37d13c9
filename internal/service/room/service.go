package room

import (
	"context"
	"errors"
	"fmt"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"lottery_backend/internal/service"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const activeTTL = 5 * time.Second

type serv struct {
	roomRepo repository.RoomRepository
	active   *cache.Cache
	log      *zap.Logger
}

// NewRoomService - администрирование комнат
func NewRoomService(roomRepo repository.RoomRepository, log *zap.Logger) service.RoomService {
	return &serv{
		roomRepo: roomRepo,
		active:   cache.New(activeTTL, time.Minute),
		log:      log.Named("room"),
	}
}

func cacheKey(roomID int64) string {
	return strconv.FormatInt(roomID, 10)
}

func (s *serv) ActivateRoom(ctx context.Context, roomID int64, title string) error {
	if err := s.roomRepo.SetActive(ctx, roomID, title, true); err != nil {
		return fmt.Errorf("room.ActivateRoom: %w", err)
	}
	s.active.Delete(cacheKey(roomID))
	s.log.Info("room activated", zap.Int64("room_id", roomID))
	return nil
}

func (s *serv) DeactivateRoom(ctx context.Context, roomID int64) error {
	if _, err := s.roomRepo.GetRoom(ctx, roomID); err != nil {
		return fmt.Errorf("room.DeactivateRoom: %w", err)
	}
	if err := s.roomRepo.SetActive(ctx, roomID, "", false); err != nil {
		return fmt.Errorf("room.DeactivateRoom: %w", err)
	}
	s.active.Delete(cacheKey(roomID))
	s.log.Info("room deactivated", zap.Int64("room_id", roomID))
	return nil
}

// SetForcedOutcome - директива на следующий раунд, перезаписывает предыдущую
func (s *serv) SetForcedOutcome(ctx context.Context, roomID int64, forced model.ForcedOutcome) error {
	if err := s.roomRepo.SetForced(ctx, roomID, &forced); err != nil {
		return fmt.Errorf("room.SetForcedOutcome: %w", err)
	}
	s.log.Warn("forced outcome set", zap.Int64("room_id", roomID), zap.String("outcome", forced.String()))
	return nil
}

func (s *serv) ClearForcedOutcome(ctx context.Context, roomID int64) error {
	if err := s.roomRepo.SetForced(ctx, roomID, nil); err != nil {
		return fmt.Errorf("room.ClearForcedOutcome: %w", err)
	}
	s.log.Info("forced outcome cleared", zap.Int64("room_id", roomID))
	return nil
}

// IsActive - неизвестная комната считается неактивной
func (s *serv) IsActive(ctx context.Context, roomID int64) (bool, error) {
	if v, ok := s.active.Get(cacheKey(roomID)); ok {
		return v.(bool), nil
	}

	active := false
	room, err := s.roomRepo.GetRoom(ctx, roomID)
	switch {
	case err == nil:
		active = room.Active
	case errors.Is(err, model.ErrRoomNotFound):
	default:
		return false, fmt.Errorf("room.IsActive: %w", err)
	}

	s.active.Set(cacheKey(roomID), active, cache.DefaultExpiration)
	return active, nil
}

func (s *serv) ActiveRooms(ctx context.Context) ([]int64, error) {
	ids, err := s.roomRepo.ActiveRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("room.ActiveRooms: %w", err)
	}
	return ids, nil
}
