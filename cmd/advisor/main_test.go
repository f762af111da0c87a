package main

import "testing"

func TestConfigDirFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"analyze", "--price", "1"}, ""},
		{[]string{"--config", "/tmp/adv", "serve"}, "/tmp/adv"},
		{[]string{"serve", "--config=/etc/adv"}, "/etc/adv"},
		{[]string{"serve", "--config"}, ""},
	}
	for _, tt := range tests {
		if got := configDirFromArgs(tt.args); got != tt.want {
			t.Errorf("configDirFromArgs(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
