package consumer

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"rental-backend/internal/models"
	"rental-backend/internal/repository"
)

// BookingConsumer reacts to booking lifecycle events. The booking core never
// mutates properties itself; marking a property rented on approval happens
// here, as a separate workflow driven by the broker.
type BookingConsumer struct {
	propertyRepo repository.PropertyRepository
}

func NewBookingConsumer(propertyRepo repository.PropertyRepository) *BookingConsumer {
	return &BookingConsumer{propertyRepo: propertyRepo}
}

func (bc *BookingConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			bc.handleMessage(msg)
		}
		log.Println("[BookingConsumer] channel closed, stopping consumer")
	}()
}

func (bc *BookingConsumer) handleMessage(msg amqp.Delivery) {
	var event models.BookingEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("[BookingConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	if event.Status != models.StatusApproved {
		msg.Ack(false)
		return
	}

	if err := bc.propertyRepo.UpdateStatus(context.Background(), event.PropertyID, models.PropertyRented); err != nil {
		log.Printf("[BookingConsumer] failed to mark property %d rented: %v", event.PropertyID, err)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[BookingConsumer] booking %d approved, property %d marked rented", event.BookingID, event.PropertyID)
	msg.Ack(false)
}
