package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/dlotsss/brondau-server/internal/database/postgres"
	"github.com/dlotsss/brondau-server/internal/entity"
	"github.com/dlotsss/brondau-server/pkg/queue"
	"github.com/dlotsss/brondau-server/pkg/telegram"
)

type notificationService struct {
	subscriptionRepo repository.SubscriptionRepository
	bookingRepo      repository.BookingRepository
	restaurantRepo   repository.RestaurantRepository
	bot              *telegram.Bot
}

// NewNotificationService создает сервис подписок и доставки уведомлений
func NewNotificationService(
	subscriptionRepo repository.SubscriptionRepository,
	bookingRepo repository.BookingRepository,
	restaurantRepo repository.RestaurantRepository,
	bot *telegram.Bot,
) NotificationService {
	return &notificationService{
		subscriptionRepo: subscriptionRepo,
		bookingRepo:      bookingRepo,
		restaurantRepo:   restaurantRepo,
		bot:              bot,
	}
}

func (s *notificationService) Subscribe(ctx context.Context, sub *entity.PushSubscription) error {
	if sub.Endpoint == "" || sub.ChatID == "" {
		return fmt.Errorf("endpoint and chat_id are required")
	}
	if sub.Role == entity.SubscriberRoleGuest {
		sub.GuestPhone = entity.NormalizePhone(sub.GuestPhone)
	}
	return s.subscriptionRepo.Upsert(ctx, sub)
}

func (s *notificationService) Unsubscribe(ctx context.Context, endpoint string) error {
	return s.subscriptionRepo.Delete(ctx, endpoint)
}

// HandleTask превращает событие жизненного цикла брони в сообщения
// подписчикам: заявки уходят админам ресторана, решения — гостю.
func (s *notificationService) HandleTask(task *queue.Task) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookingID := task.GetInt64("booking_id")
	if bookingID == 0 {
		return fmt.Errorf("invalid task: booking_id is required")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("booking not found: %w", err)
	}

	switch task.Type {
	case queue.TaskTypeBookingRequested:
		return s.notifyAdmins(ctx, booking)
	case queue.TaskTypeBookingConfirmed:
		return s.notifyGuest(ctx, booking, s.confirmedMessage(ctx, booking))
	case queue.TaskTypeBookingDeclined:
		return s.notifyGuest(ctx, booking, s.declinedMessage(booking, "Бронирование отклонено ❌"))
	case queue.TaskTypeBookingExpired:
		return s.notifyGuest(ctx, booking, s.declinedMessage(booking, "Бронирование снято ⏰"))
	default:
		return fmt.Errorf("invalid task type: %s", task.Type)
	}
}

func (s *notificationService) notifyAdmins(ctx context.Context, booking *entity.Booking) error {
	subs, err := s.subscriptionRepo.GetAdminsByRestaurant(ctx, booking.RestaurantID)
	if err != nil {
		return fmt.Errorf("failed to load admin subscriptions: %w", err)
	}

	message := fmt.Sprintf(
		"Новый запрос на бронирование\n%s — стол %s, %s, %d гостей",
		booking.GuestName,
		booking.TableLabel,
		booking.DateTime.Format("02.01 15:04"),
		booking.GuestCount,
	)

	return s.deliver(ctx, subs, message)
}

func (s *notificationService) notifyGuest(ctx context.Context, booking *entity.Booking, message string) error {
	if booking.GuestPhone == "" {
		return nil
	}

	subs, err := s.subscriptionRepo.GetGuestsByPhone(ctx, entity.NormalizePhone(booking.GuestPhone))
	if err != nil {
		return fmt.Errorf("failed to load guest subscriptions: %w", err)
	}

	return s.deliver(ctx, subs, message)
}

func (s *notificationService) confirmedMessage(ctx context.Context, booking *entity.Booking) string {
	header := "Бронирование подтверждено ✅"
	restaurant, err := s.restaurantRepo.GetByID(ctx, booking.RestaurantID)
	if err != nil {
		return fmt.Sprintf("%s\nСтол %s, %s", header, booking.TableLabel, booking.DateTime.Format("02.01 15:04"))
	}

	place := restaurant.Name
	if restaurant.Address != "" {
		place += ", " + restaurant.Address
	}
	return fmt.Sprintf("%s\n%s — стол %s, %s", header, place, booking.TableLabel, booking.DateTime.Format("02.01 15:04"))
}

func (s *notificationService) declinedMessage(booking *entity.Booking, header string) string {
	reason := "Ваше бронирование было отклонено."
	if booking.DeclineReason != nil && *booking.DeclineReason != "" {
		reason = *booking.DeclineReason
	}
	return header + "\n" + reason
}

// deliver рассылает сообщение по подпискам; мёртвые endpoint'ы удаляются,
// как и в исходной Web Push схеме с кодами 404/410.
func (s *notificationService) deliver(ctx context.Context, subs []*entity.PushSubscription, message string) error {
	if s.bot == nil || len(subs) == 0 {
		return nil
	}

	var lastErr error
	for _, sub := range subs {
		err := s.bot.SendMessage(sub.ChatID, message)
		if err == nil {
			continue
		}
		if errors.Is(err, telegram.ErrRecipientGone) {
			if delErr := s.subscriptionRepo.Delete(ctx, sub.Endpoint); delErr != nil {
				logrus.Errorf("Failed to delete dead subscription %s: %v", sub.Endpoint, delErr)
			}
			continue
		}
		logrus.Errorf("Failed to deliver notification to %s: %v", sub.Endpoint, err)
		lastErr = err
	}

	return lastErr
}
