package main

import (
	"net"
	"testing"
	"time"
)

func TestParseTCPKeepAlive(t *testing.T) {
	tests := []struct {
		in      string
		want    net.KeepAliveConfig
		wantErr bool
	}{
		{in: "on", want: net.KeepAliveConfig{Enable: true}},
		{in: "off", want: net.KeepAliveConfig{Enable: false}},
		{in: "OFF", want: net.KeepAliveConfig{Enable: false}},
		{in: "45:45:3", want: net.KeepAliveConfig{Enable: true, Idle: 45 * time.Second, Interval: 45 * time.Second, Count: 3}},
		{in: " 10 : 20 : 1 ", want: net.KeepAliveConfig{Enable: true, Idle: 10 * time.Second, Interval: 20 * time.Second, Count: 1}},
		{in: "", wantErr: true},
		{in: "maybe", wantErr: true},
		{in: "45:45", wantErr: true},
		{in: "0:45:3", wantErr: true},
		{in: "45:45:-1", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseTCPKeepAlive(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseTCPKeepAlive(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseTCPKeepAlive(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseTCPKeepAlive(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
