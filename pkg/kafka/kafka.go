package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

type Config struct {
	Addrs []string `yaml:"addrs" envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

const (
	ReservationTopic = "reservation-events"
)

const (
	EventCreated   = "CREATED"
	EventUpdated   = "UPDATED"
	EventCancelled = "CANCELLED"
	EventDeleted   = "DELETED"
)

// ReservationEvent is the payload published to ReservationTopic on
// every lifecycle change.
type ReservationEvent struct {
	Type           string    `json:"type"`
	ReservationUid string    `json:"reservationUid"`
	ClientID       int       `json:"clientId"`
	Actor          string    `json:"actor"`
	At             time.Time `json:"at"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
