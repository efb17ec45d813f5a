package database

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Connection definition db connect setting
type Connection struct {
	ConnectStr    string
	RetryCount    int
	RetryInterval time.Duration
}

// MongoDB holds the connected client and the service database
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}
