package model

// ListeningSocket is a bound endpoint waiting for inbound connections.
type ListeningSocket struct {
	Port     int    `json:"port"`
	PID      int    `json:"pid"`
	Protocol string `json:"protocol"` // TCP, TCPv6, IPv4, ...
}
