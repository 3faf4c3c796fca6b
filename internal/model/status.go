package model

import "time"

const (
	StoreConnected    = "connected"
	StoreDisconnected = "disconnected"
)

type Health struct {
	Status      string
	Timestamp   time.Time
	Uptime      time.Duration
	Environment string
}

type StoreStatus struct {
	Store  string
	Driver string
}
