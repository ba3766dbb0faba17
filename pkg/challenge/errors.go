package challenge

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrFailedToIssueChallenge       = errors.New("failed to issue challenge")
	ErrFailedToConsumeChallenge     = errors.New("failed to consume challenge")
	ErrNoChallenge                  = errors.New("no outstanding challenge")
)
