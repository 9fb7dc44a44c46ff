package main

import "time"

// InspectFlags Flag structs to decouple cobra from logic for testing.
type InspectFlags struct {
	ConfigPath string
	Environ    bool
	JSON       bool
	// Remote agent connection
	APIUrl     string
	APITimeout time.Duration
	Token      string
}

type TerminateFlags struct {
	ConfigPath string
	JSON       bool
	// Remote agent connection
	APIUrl     string
	APITimeout time.Duration
	Token      string
}

type QuarantineFlags struct {
	ConfigPath    string
	JSON          bool
	QuarantineDir string
	// Remote agent connection
	APIUrl     string
	APITimeout time.Duration
	Token      string
}

type ServeFlags struct {
	ConfigPath string
	Daemonize  bool
	PidFile    string
	LogFile    string
}

type TemplateCreateFlags struct {
	Type   string
	Output string
	Force  bool
}
