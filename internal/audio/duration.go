package audio

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// bytesPerSample is the size of one decoded frame: 16-bit stereo.
const bytesPerSample = 4

// ProbeDuration decodes the MP3 at path far enough to learn its length and
// returns it in seconds.
func ProbeDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", path, err)
	}

	length := decoder.Length()
	if length <= 0 || decoder.SampleRate() <= 0 {
		return 0, errors.New("mp3 length unknown")
	}

	return float64(length/bytesPerSample) / float64(decoder.SampleRate()), nil
}
