package synth

import (
	"sort"
	"time"

	"github.com/gopxl/beep"
)

// SampleRate 所有音效共用的采样率,与 Ebitengine 音频上下文一致
const SampleRate = beep.SampleRate(48000)

// Kind 音效类别
type Kind int

const (
	KindEffect  Kind = iota // 一次性音效
	KindMusic               // 循环背景音乐
	KindAmbient             // 循环环境音
)

// builder 构造一段有限长度的流
type builder func(rate beep.SampleRate) beep.Streamer

type entry struct {
	kind  Kind
	build builder
}

// catalog 音效ID -> 生成器,ID 与变体配置中的 sound 字段对应
var catalog = map[string]entry{
	"catch_basic": {KindEffect, func(r beep.SampleRate) beep.Streamer {
		return tone(880, 90*time.Millisecond, WaveSine, r)
	}},
	"catch_bonus": {KindEffect, func(r beep.SampleRate) beep.Streamer {
		return beep.Seq(
			tone(988, 70*time.Millisecond, WaveSine, r),
			tone(1319, 120*time.Millisecond, WaveSine, r),
		)
	}},
	"hit_hazard": {KindEffect, func(r beep.SampleRate) beep.Streamer {
		return beep.Mix(
			sweep(220, 80, 220*time.Millisecond, WaveSaw, r),
			Gain(NewEnvelope(NewOscillator(1, 120*time.Millisecond, WaveNoise, r), 120*time.Millisecond, 0, 80*time.Millisecond, r), 0.4),
		)
	}},
	"heal": {KindEffect, func(r beep.SampleRate) beep.Streamer {
		return beep.Seq(
			tone(523, 80*time.Millisecond, WaveTriangle, r),
			tone(659, 80*time.Millisecond, WaveTriangle, r),
			tone(784, 140*time.Millisecond, WaveTriangle, r),
		)
	}},
	"shield_up": {KindEffect, func(r beep.SampleRate) beep.Streamer {
		return sweep(300, 1200, 300*time.Millisecond, WaveSquare, r)
	}},
	"shield_block": {KindEffect, func(r beep.SampleRate) beep.Streamer {
		return beep.Mix(
			tone(1568, 60*time.Millisecond, WaveSquare, r),
			tone(2093, 100*time.Millisecond, WaveSine, r),
		)
	}},
	"miss": {KindEffect, func(r beep.SampleRate) beep.Streamer {
		return sweep(440, 220, 180*time.Millisecond, WaveTriangle, r)
	}},
	"game_over": {KindEffect, func(r beep.SampleRate) beep.Streamer {
		return beep.Seq(
			tone(392, 200*time.Millisecond, WaveTriangle, r),
			tone(330, 200*time.Millisecond, WaveTriangle, r),
			tone(262, 500*time.Millisecond, WaveTriangle, r),
		)
	}},
	"music_tears": {KindMusic, func(r beep.SampleRate) beep.Streamer {
		return melody(r, WaveSine, 0.25, 330, 392, 440, 392, 330, 294, 262, 294)
	}},
	"music_blood": {KindMusic, func(r beep.SampleRate) beep.Streamer {
		return melody(r, WaveSaw, 0.15, 220, 262, 233, 196, 220, 175, 196, 165)
	}},
	"ambient_rain": {KindAmbient, func(r beep.SampleRate) beep.Streamer {
		d := 2 * time.Second
		return Gain(NewEnvelope(NewOscillator(7, d, WaveNoise, r), d, 200*time.Millisecond, 200*time.Millisecond, r), 0.08)
	}},
}

// melody 每个音符 300ms 的简单旋律,作为一个循环段
func melody(r beep.SampleRate, wave WaveType, vol float64, notes ...float64) beep.Streamer {
	parts := make([]beep.Streamer, len(notes))
	for i, f := range notes {
		parts[i] = NewEnvelope(NewOscillator(f, 300*time.Millisecond, wave, r), 300*time.Millisecond, 20*time.Millisecond, 120*time.Millisecond, r)
	}
	return Gain(beep.Seq(parts...), vol)
}

// New 构造音效的一个完整片段(音乐与环境音为一个循环段)
func New(id string, rate beep.SampleRate) (beep.Streamer, Kind, bool) {
	e, ok := catalog[id]
	if !ok {
		return nil, 0, false
	}
	return e.build(rate), e.kind, true
}

// IDs 所有已知音效ID,按字母排序
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IDsOf 指定类型的音效ID,按字母排序
func IDsOf(kind Kind) []string {
	var ids []string
	for _, id := range IDs() {
		if catalog[id].kind == kind {
			ids = append(ids, id)
		}
	}
	return ids
}
