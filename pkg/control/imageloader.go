package control

import "os"

// FileImageLoader reads RFT images from the local filesystem: the RFT
// command's argument is a path to a raw image file.
type FileImageLoader struct{}

// Load reads the file at path in full.
func (FileImageLoader) Load(path string) ([]byte, error) {
	return os.ReadFile(path)
}
