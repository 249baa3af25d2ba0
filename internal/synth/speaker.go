package synth

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog/log"
)

// SpeakerSink 通过 beep/speaker 直接播放合成音效,实现 engine.AudioSink
// 用于没有 Ebitengine 的终端前端
type SpeakerSink struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	music   *beep.Ctrl
	ambient *beep.Ctrl
	volume  float64
	started bool
	cache   map[string]*beep.Buffer
}

// NewSpeakerSink 创建音效输出,volume 为 [0,1] 的线性音量
func NewSpeakerSink(volume float64) *SpeakerSink {
	return &SpeakerSink{
		mixer:  &beep.Mixer{},
		volume: volume,
		cache:  make(map[string]*beep.Buffer),
	}
}

// Start 初始化声卡并开始播放混音器
func (s *SpeakerSink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.started = true
	return nil
}

// Close 停止所有声音
func (s *SpeakerSink) Close() {
	s.StopMusic()
	s.StopAmbient()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lock()
	s.mixer.Clear()
	s.unlock()
}

// PlaySound 播放一次性音效
func (s *SpeakerSink) PlaySound(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.buffer(id)
	if !ok {
		return false
	}
	s.lock()
	s.mixer.Add(Gain(buf.Streamer(0, buf.Len()), s.volume))
	s.unlock()
	return true
}

// PlayMusic 循环播放背景音乐,替换当前音乐
func (s *SpeakerSink) PlayMusic(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop(id, &s.music)
}

// StopMusic 停止背景音乐
func (s *SpeakerSink) StopMusic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop(&s.music)
}

// PlayAmbient 循环播放环境音
func (s *SpeakerSink) PlayAmbient(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop(id, &s.ambient)
}

// StopAmbient 停止环境音
func (s *SpeakerSink) StopAmbient() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop(&s.ambient)
}

// Active 混音器中正在播放的流数量
func (s *SpeakerSink) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lock()
	defer s.unlock()
	return s.mixer.Len()
}

func (s *SpeakerSink) loop(id string, slot **beep.Ctrl) bool {
	buf, ok := s.buffer(id)
	if !ok {
		log.Debug().Str("component", "SpeakerSink").Str("id", id).Msg("unknown loop id")
		return false
	}
	s.stop(slot)

	ctrl := &beep.Ctrl{Streamer: Gain(beep.Loop(-1, buf.Streamer(0, buf.Len())), s.volume)}
	s.lock()
	s.mixer.Add(ctrl)
	s.unlock()
	*slot = ctrl
	return true
}

func (s *SpeakerSink) stop(slot **beep.Ctrl) {
	if *slot == nil {
		return
	}
	s.lock()
	(*slot).Streamer = nil
	s.unlock()
	*slot = nil
}

// buffer 渲染并缓存音效片段,调用方持有 s.mu
func (s *SpeakerSink) buffer(id string) (*beep.Buffer, bool) {
	if buf, ok := s.cache[id]; ok {
		return buf, true
	}
	stream, _, ok := New(id, SampleRate)
	if !ok {
		return nil, false
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2})
	buf.Append(stream)
	s.cache[id] = buf
	return buf, true
}

// lock 只有声卡已初始化时才需要与播放线程同步
func (s *SpeakerSink) lock() {
	if s.started {
		speaker.Lock()
	}
}

func (s *SpeakerSink) unlock() {
	if s.started {
		speaker.Unlock()
	}
}
