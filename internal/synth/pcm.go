package synth

import (
	"encoding/binary"
	"math"

	"github.com/gopxl/beep"
)

// maxRenderSamples 单个片段渲染上限(10 秒)
const maxRenderSamples = 10 * 48000

// RenderPCM 把有限流渲染为 16 位小端立体声 PCM,即 Ebitengine 音频播放器的输入格式
func RenderPCM(s beep.Streamer) []byte {
	buf := make([][2]float64, 512)
	out := make([]byte, 0, 48000*4)

	total := 0
	for total < maxRenderSamples {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(buf[i][0])))
			out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(buf[i][1])))
		}
		total += n
		if !ok {
			break
		}
	}
	return out
}

// Render 按ID渲染音效
func Render(id string) ([]byte, Kind, bool) {
	s, kind, ok := New(id, SampleRate)
	if !ok {
		return nil, 0, false
	}
	return RenderPCM(s), kind, true
}

func toInt16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(v * math.MaxInt16)
}
