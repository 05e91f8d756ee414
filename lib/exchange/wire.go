package exchange

/* wire.go serializes particle batches for cross-process transport. Frames
are zstd-compressed little-endian binary: halo batches are bulk particle
data, the same kind of payload simulation snapshot formats compress, and the
positions of particles bunched into one shell compress well. */

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/DataDog/zstd"

	"github.com/phil-mansfield/mdcell/lib/store"
)

const (
	// wireMagic is an arbitrary number at the start of every frame which
	// should catch frames that were corrupted or produced by something else
	// entirely.
	wireMagic = uint32(0x68614c6f)
	wireVersion = uint32(1)
)

var wireOrder = binary.LittleEndian

// EncodeBatch serializes one batch, its destination grid, and the position
// shift the receiver must apply, returning a compressed frame.
func EncodeBatch(dst int, shift [3]float64, b *store.Batch) ([]byte, error) {
	buf := &bytes.Buffer{ }
	n := b.Len()

	for _, x := range []interface{}{
		wireMagic, wireVersion, int32(dst), shift, int32(n),
	} {
		if err := binary.Write(buf, wireOrder, x); err != nil {
			return nil, err
		}
	}

	flat := make([]float64, 3*n)
	flatten := func(v [][3]float64) []float64 {
		for i := 0; i < n; i++ {
			flat[3*i], flat[3*i+1], flat[3*i+2] = v[i][0], v[i][1], v[i][2]
		}
		return flat
	}

	if err := binary.Write(buf, wireOrder, b.ID); err != nil {
		return nil, err
	} else if err := binary.Write(buf, wireOrder, b.Proc); err != nil {
		return nil, err
	} else if err := binary.Write(buf, wireOrder, flatten(b.X)); err != nil {
		return nil, err
	} else if err := binary.Write(buf, wireOrder, flatten(b.V)); err != nil {
		return nil, err
	}

	return zstd.Compress(nil, buf.Bytes())
}

// DecodeBatch reverses EncodeBatch.
func DecodeBatch(data []byte) (
	dst int, shift [3]float64, b *store.Batch, err error,
) {
	raw, err := zstd.Decompress(nil, data)
	if err != nil { return 0, shift, nil, err }
	rd := bytes.NewReader(raw)

	var magic, version uint32
	var dst32, n int32
	if err := binary.Read(rd, wireOrder, &magic); err != nil {
		return 0, shift, nil, err
	} else if magic != wireMagic {
		return 0, shift, nil, fmt.Errorf("Frame starts with 0x%x instead " +
			"of the expected magic number 0x%x.", magic, wireMagic)
	} else if err := binary.Read(rd, wireOrder, &version); err != nil {
		return 0, shift, nil, err
	} else if version != wireVersion {
		return 0, shift, nil, fmt.Errorf("Frame has wire version %d, but " +
			"this build only understands version %d.", version, wireVersion)
	} else if err := binary.Read(rd, wireOrder, &dst32); err != nil {
		return 0, shift, nil, err
	} else if err := binary.Read(rd, wireOrder, &shift); err != nil {
		return 0, shift, nil, err
	} else if err := binary.Read(rd, wireOrder, &n); err != nil {
		return 0, shift, nil, err
	}

	b = &store.Batch{
		ID: make([]int64, n),
		Proc: make([]int32, n),
		X: make([][3]float64, n),
		V: make([][3]float64, n),
	}

	flat := make([]float64, 3*n)
	unflatten := func(v [][3]float64) {
		for i := range v {
			v[i] = [3]float64{ flat[3*i], flat[3*i+1], flat[3*i+2] }
		}
	}

	if err := binary.Read(rd, wireOrder, b.ID); err != nil {
		return 0, shift, nil, err
	} else if err := binary.Read(rd, wireOrder, b.Proc); err != nil {
		return 0, shift, nil, err
	} else if err := binary.Read(rd, wireOrder, flat); err != nil {
		return 0, shift, nil, err
	}
	unflatten(b.X)
	if err := binary.Read(rd, wireOrder, flat); err != nil {
		return 0, shift, nil, err
	}
	unflatten(b.V)

	return int(dst32), shift, b, nil
}
