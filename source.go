package img2ascii

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/wbrown/img2ascii/imageutil"
)

// ImageSource is a handle to an image that is decoded on demand. The
// renderer calls Release as soon as the image has been downsampled, so a
// source never holds a decoded bitmap past that point.
type ImageSource interface {
	// Decode returns the decoded image. It may be called again after
	// Release, in which case the image is decoded afresh.
	Decode() (image.Image, error)
	// Release drops any decoded image held by the source.
	Release()
	// Name identifies the source in errors.
	Name() string
}

// ImageDecodeError reports a source that could not be read or decoded.
type ImageDecodeError struct {
	Source string
	Err    error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *ImageDecodeError) Unwrap() error {
	return e.Err
}

// memorySource wraps an image that is already decoded.
type memorySource struct {
	name string
	img  image.Image
}

// FromImage returns a source for an already decoded image. Release drops
// the source's reference; the image itself is only ever read, so one image
// may back any number of sources.
func FromImage(img image.Image) ImageSource {
	return &memorySource{name: "image", img: img}
}

func (s *memorySource) Decode() (image.Image, error) {
	if s.img == nil {
		return nil, &ImageDecodeError{Source: s.name, Err: fmt.Errorf("image already released")}
	}
	return s.img, nil
}

func (s *memorySource) Release()     { s.img = nil }
func (s *memorySource) Name() string { return s.name }

// fileSource decodes an image file from disk.
type fileSource struct {
	path string
	img  image.Image
}

// FromFile returns a source that decodes the image at path on first use.
func FromFile(path string) ImageSource {
	return &fileSource{path: path}
}

func (s *fileSource) Decode() (image.Image, error) {
	if s.img != nil {
		return s.img, nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, &ImageDecodeError{Source: s.path, Err: err}
	}
	defer f.Close()

	img, _, err := imageutil.DecodeImage(f)
	if err != nil {
		return nil, &ImageDecodeError{Source: s.path, Err: err}
	}
	s.img = img
	return img, nil
}

func (s *fileSource) Release()     { s.img = nil }
func (s *fileSource) Name() string { return s.path }

// bytesSource decodes an encoded image held in memory.
type bytesSource struct {
	name string
	data []byte
	img  image.Image
}

// FromBytes returns a source that decodes data on first use. name is used
// in error messages.
func FromBytes(name string, data []byte) ImageSource {
	return &bytesSource{name: name, data: data}
}

// FromReader reads r to the end and returns a source over its bytes.
func FromReader(name string, r io.Reader) (ImageSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ImageDecodeError{Source: name, Err: err}
	}
	return FromBytes(name, data), nil
}

func (s *bytesSource) Decode() (image.Image, error) {
	if s.img != nil {
		return s.img, nil
	}
	img, _, err := imageutil.DecodeImage(bytes.NewReader(s.data))
	if err != nil {
		return nil, &ImageDecodeError{Source: s.name, Err: err}
	}
	s.img = img
	return img, nil
}

func (s *bytesSource) Release()     { s.img = nil }
func (s *bytesSource) Name() string { return s.name }
