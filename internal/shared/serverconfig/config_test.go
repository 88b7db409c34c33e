package serverconfig

import (
	"math"
	"testing"
)

func TestValidate_世界半径(t *testing.T) {
	cases := []struct {
		radius float64
		ok     bool
	}{
		{0, true},
		{2000, true},
		{MaxWorldRadius, true},
		{MaxWorldRadius + 1, false},
		{1e6, false},
		{-1, false},
		{math.NaN(), false},
	}
	for _, c := range cases {
		conf := Config{World: WorldConfig{Radius: c.radius}}
		if err := conf.Validate(); (err == nil) != c.ok {
			t.Fatalf("radius=%v: 期望 ok=%v，实际 err=%v", c.radius, c.ok, err)
		}
	}
}

func TestValidate_节点号(t *testing.T) {
	for _, id := range []int64{-1, 16} {
		conf := Config{World: WorldConfig{Radius: 100, NodeID: id}}
		if err := conf.Validate(); err == nil {
			t.Fatalf("node_id=%d 期望报错", id)
		}
	}
	conf := Config{World: WorldConfig{Radius: 100, NodeID: 15}}
	if err := conf.Validate(); err != nil {
		t.Fatalf("node_id=15 应合法: %v", err)
	}
}
