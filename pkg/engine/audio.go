package engine

// AudioSink 音频输出
//
// 所有调用都是"发出即忘记",引擎不会等待也不关心返回值以外的结果。
// 声音 ID 来自变体配置,未知 ID 由实现自行忽略。
type AudioSink interface {
	PlaySound(id string) bool
	PlayMusic(id string) bool
	StopMusic()
	PlayAmbient(id string) bool
	StopAmbient()
}

// NopAudio 静音实现
type NopAudio struct{}

func (NopAudio) PlaySound(string) bool   { return false }
func (NopAudio) PlayMusic(string) bool   { return false }
func (NopAudio) StopMusic()              {}
func (NopAudio) PlayAmbient(string) bool { return false }
func (NopAudio) StopAmbient()            {}
