// Package constants provides shared constants for the week-routine application
package constants

// AppName identifies the application in logs and generated output
const AppName = "week-routine"

// DateFormat is the calendar day layout used for storage and command-line input
const DateFormat = "2006-01-02"

// ConsecutiveLimit is the number of consecutive occurrences after which the planner forces a switch
const ConsecutiveLimit = 2

// FairnessLookback is the number of previous assignments considered by the planner
const FairnessLookback = 5
