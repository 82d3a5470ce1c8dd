// ABOUTME: Tests for node derivation from found events.
// ABOUTME: Covers id extraction, label parsing, type rules and position bounds.
package playback

import (
	"math/rand/v2"
	"testing"

	"github.com/2389-research/lifeline/emergency"
)

func TestDeriveNode(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		message   string
		wantID    string
		wantLabel string
		wantType  emergency.NodeType
	}{
		{"tag and doctor", 1, "✅ 发现 医生AI #D01", "#D01", "医生AI", emergency.NodeNurse},
		{"police", 2, "✅ 发现 警察AI #P7", "#P7", "警察AI", emergency.NodePolice},
		{"lawyer no tag", 3, "✅ 连接 律师AI", "node-3", "律师AI", emergency.NodeLawyer},
		{"mechanic", 4, "找到 附近 修车AI", "node-4", "修车AI", emergency.NodeMechanic},
		{"insurance", 5, "a b 保险AI", "node-5", "保险AI", emergency.NodeInsurance},
		{"short message", 6, "found", "node-6", "AI Node", emergency.NodeNurse},
		{"unknown label", 7, "x y 邻居", "node-7", "邻居", emergency.NodeNurse},
	}
	rng := rand.New(rand.NewPCG(7, 7))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := emergency.PlaybackEvent{ID: "x", Kind: emergency.KindFound, Message: tt.message}
			n := DeriveNode(tt.index, evt, rng)
			if n.ID != tt.wantID {
				t.Errorf("id = %q, want %q", n.ID, tt.wantID)
			}
			if n.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", n.Label, tt.wantLabel)
			}
			if n.Type != tt.wantType {
				t.Errorf("type = %q, want %q", n.Type, tt.wantType)
			}
			if n.Status != emergency.StatusConnected {
				t.Errorf("status = %q, want connected", n.Status)
			}
			if n.X < 20 || n.X >= 80 || n.Y < 20 || n.Y >= 80 {
				t.Errorf("position (%v,%v) outside [20,80)", n.X, n.Y)
			}
		})
	}
}
