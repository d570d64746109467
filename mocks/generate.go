package mocks

//go:generate mockgen -destination=./mock_journal.go -package=mocks github.com/rustyeddy/rotator/journal Journal
//go:generate mockgen -destination=./mock_broker.go -package=mocks github.com/rustyeddy/rotator/broker Broker
//go:generate mockgen -destination=./mock_source.go -package=mocks github.com/rustyeddy/rotator/internal/feed Source
