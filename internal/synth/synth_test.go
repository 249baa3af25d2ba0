package synth

import (
	"bytes"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// TestOscillatorRange 所有波形的采样值都在 [-1, 1]
func TestOscillatorRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	waves := []WaveType{WaveSine, WaveSquare, WaveSaw, WaveTriangle, WaveNoise}

	for _, wave := range waves {
		osc := NewSweep(220, 880, 50*time.Millisecond, wave, rate)
		samples := make([][2]float64, 256)
		total := 0
		for {
			n, ok := osc.Stream(samples)
			for i := 0; i < n; i++ {
				if samples[i][0] < -1 || samples[i][0] > 1 {
					t.Fatalf("wave %d sample %d out of range: %f", wave, total+i, samples[i][0])
				}
			}
			total += n
			if !ok {
				break
			}
		}
		if want := rate.N(50 * time.Millisecond); total != want {
			t.Errorf("wave %d: streamed %d samples, want %d", wave, total, want)
		}
	}
}

// TestEnvelopeFadesOut 包络结尾音量趋近 0
func TestEnvelopeFadesOut(t *testing.T) {
	rate := beep.SampleRate(44100)
	d := 20 * time.Millisecond
	env := NewEnvelope(NewOscillator(440, d, WaveSquare, rate), d, 0, d/2, rate)

	samples := make([][2]float64, rate.N(d))
	n, _ := env.Stream(samples)
	if n != len(samples) {
		t.Fatalf("streamed %d, want %d", n, len(samples))
	}
	last := samples[n-1][0]
	if last > 0.01 || last < -0.01 {
		t.Errorf("last sample should be near silent, got %f", last)
	}
	if first := samples[0][0]; first != 1 {
		t.Errorf("no attack: first sample should be full square, got %f", first)
	}
}

// TestCatalogRenders 每个音效都能渲染出非空 PCM
func TestCatalogRenders(t *testing.T) {
	for _, id := range IDs() {
		pcm, _, ok := Render(id)
		if !ok {
			t.Fatalf("Render(%q) not found", id)
		}
		if len(pcm) == 0 || len(pcm)%4 != 0 {
			t.Errorf("Render(%q): %d bytes, want non-empty multiple of 4", id, len(pcm))
		}
	}

	if _, _, ok := Render("no_such_sound"); ok {
		t.Error("unknown id should not render")
	}
}

// TestRenderDeterministic 同一音效两次渲染结果相同(包括噪声)
func TestRenderDeterministic(t *testing.T) {
	a, _, _ := Render("hit_hazard")
	b, _, _ := Render("hit_hazard")
	if !bytes.Equal(a, b) {
		t.Error("hit_hazard renders differently on each call")
	}
}

func TestKinds(t *testing.T) {
	tests := []struct {
		id   string
		want Kind
	}{
		{"catch_basic", KindEffect},
		{"music_tears", KindMusic},
		{"music_blood", KindMusic},
		{"ambient_rain", KindAmbient},
	}
	for _, tt := range tests {
		_, kind, ok := New(tt.id, SampleRate)
		if !ok || kind != tt.want {
			t.Errorf("New(%q) kind = %v, %v; want %v", tt.id, kind, ok, tt.want)
		}
	}
}

func TestIDsOf(t *testing.T) {
	music := IDsOf(KindMusic)
	if len(music) != 2 || music[0] != "music_blood" || music[1] != "music_tears" {
		t.Errorf("IDsOf(KindMusic) = %v", music)
	}
	total := len(IDsOf(KindEffect)) + len(music) + len(IDsOf(KindAmbient))
	if total != len(IDs()) {
		t.Errorf("kinds cover %d ids, catalog has %d", total, len(IDs()))
	}
}

// TestSpeakerSinkWithoutDevice 未初始化声卡时仍然记录混音器状态
func TestSpeakerSinkWithoutDevice(t *testing.T) {
	s := NewSpeakerSink(0.5)

	if !s.PlaySound("catch_basic") {
		t.Fatal("PlaySound(catch_basic) = false")
	}
	if s.PlaySound("nope") {
		t.Error("PlaySound(nope) = true")
	}
	if !s.PlayMusic("music_tears") || !s.PlayMusic("music_blood") {
		t.Fatal("PlayMusic failed")
	}
	if !s.PlayAmbient("ambient_rain") {
		t.Fatal("PlayAmbient failed")
	}
	if got := s.Active(); got != 4 {
		t.Errorf("Active() = %d, want 4 (replaced music still queued until drained)", got)
	}

	s.StopMusic()
	s.StopAmbient()
	s.StopMusic()
	s.Close()
	if got := s.Active(); got != 0 {
		t.Errorf("Active() after Close = %d, want 0", got)
	}
}
