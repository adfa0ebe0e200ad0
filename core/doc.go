// Package core defines the conversational data model shared by every other
// package: the closed Message sum type, tool call records and per-thread
// conversations. It has no knowledge of model providers, tools or routing.
package core
