package snapshot

import "crypto/sha256"

// Digest - фиксированный 256 битный хеш содержимого файла
type Digest [32]byte

// Sum hashes one file.
func Sum(content []byte) Digest {
	return sha256.Sum256(content)
}

// Combine строит хеш дерева: H( file1 || file2 ... ) в порядке FileID.
func Combine(files ...Digest) Digest {
	h := sha256.New()
	for _, d := range files {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
