// Package archive writes generated regions to disk for inspection. A file
// holds a location table and a timestamp table followed by sector-aligned,
// zstd-compressed chunk payloads, one per inner chunk of the region.
package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/OCharnyshevich/terragen/pkg/world/region"
	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

const (
	sectorSize      = 4096
	headerSectors   = 2 // location table + timestamp table
	compressionZstd = 5

	// MaxChunks is the largest region edge, in chunks, an archive can hold.
	MaxChunks = 32

	cellsPerChunk = region.ChunkEdge * region.ChunkEdge
	payloadSize   = cellsPerChunk*4 + cellsPerChunk
)

var (
	// ErrChunkMissing is returned when the archive has no entry for a chunk.
	ErrChunkMissing = errors.New("chunk not in archive")
	// ErrCorruptChunk is returned when a chunk header disagrees with its location entry.
	ErrCorruptChunk = errors.New("corrupt chunk")
)

// ChunkData is the decoded payload of one chunk. Index = z*16 + x.
type ChunkData struct {
	Elevation [cellsPerChunk]float32
	Terrain   [cellsPerChunk]tile.Terrain
}

// FileName returns the archive file name for a region.
func FileName(rx, rz int) string {
	return fmt.Sprintf("r.%d.%d.hmz", rx, rz)
}

// WriteRegion writes the inner chunks of r to dir and returns the file path.
func WriteRegion(dir string, r *region.Region) (string, error) {
	edge := r.ChunkSize().Size
	if edge > MaxChunks {
		return "", fmt.Errorf("region %d,%d: %d chunks per edge exceeds %d", r.X(), r.Z(), edge, MaxChunks)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}
	defer enc.Close()

	locations := make([]byte, sectorSize)
	timestamps := make([]byte, sectorSize)
	now := uint32(time.Now().Unix())

	// Each chunk's data: 4 bytes length + 1 byte compression type + compressed
	// payload, padded to a sector boundary.
	var data bytes.Buffer
	currentSector := uint32(headerSectors)
	raw := make([]byte, payloadSize)

	for lz := range edge {
		for lx := range edge {
			c := r.Chunk(r.ChunkX()+lx, r.ChunkZ()+lz)
			encodeChunk(raw, c)
			compressed := enc.EncodeAll(raw, nil)

			payloadLen := uint32(len(compressed)) + 1
			totalLen := 4 + payloadLen
			sectorCount := (totalLen + sectorSize - 1) / sectorSize

			off := (lx + lz*MaxChunks) * 4
			binary.BigEndian.PutUint32(locations[off:off+4], currentSector<<8|sectorCount&0xFF)
			binary.BigEndian.PutUint32(timestamps[off:off+4], now)

			var header [5]byte
			binary.BigEndian.PutUint32(header[0:4], payloadLen)
			header[4] = compressionZstd
			data.Write(header[:])
			data.Write(compressed)
			if pad := int(sectorCount)*sectorSize - int(totalLen); pad > 0 {
				data.Write(make([]byte, pad))
			}
			currentSector += sectorCount
		}
	}

	path := filepath.Join(dir, FileName(r.X(), r.Z()))
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create temp archive: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmp)
	}()

	for _, b := range [][]byte{locations, timestamps, data.Bytes()} {
		if _, err := f.Write(b); err != nil {
			return "", fmt.Errorf("write archive: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("rename archive: %w", err)
	}
	return path, nil
}

func encodeChunk(dst []byte, c region.ChunkReader) {
	for dz := range region.ChunkEdge {
		for dx := range region.ChunkEdge {
			i := dz*region.ChunkEdge + dx
			cell := c.Cell(dx, dz)
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(cell.Value))
			dst[cellsPerChunk*4+i] = byte(cell.Terrain)
		}
	}
}

// ReadChunk decodes the chunk at region-local (lx, lz) from an archive file.
func ReadChunk(path string, lx, lz int) (*ChunkData, error) {
	if lx < 0 || lx >= MaxChunks || lz < 0 || lz >= MaxChunks {
		return nil, fmt.Errorf("chunk (%d,%d) outside archive", lx, lz)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	var loc [4]byte
	if _, err := f.ReadAt(loc[:], int64((lx+lz*MaxChunks)*4)); err != nil {
		return nil, fmt.Errorf("read location: %w", err)
	}
	entry := binary.BigEndian.Uint32(loc[:])
	if entry == 0 {
		return nil, fmt.Errorf("chunk (%d,%d): %w", lx, lz, ErrChunkMissing)
	}
	offset := int64(entry>>8) * sectorSize

	var header [5]byte
	if _, err := f.ReadAt(header[:], offset); err != nil {
		return nil, fmt.Errorf("read chunk header: %w", err)
	}
	if header[4] != compressionZstd {
		return nil, fmt.Errorf("chunk (%d,%d): unsupported compression %d", lx, lz, header[4])
	}
	// The length covers the compression byte and must fit the allocated sectors.
	length := int64(binary.BigEndian.Uint32(header[0:4]))
	if length < 2 || length > int64(entry&0xFF)*sectorSize-4 {
		return nil, fmt.Errorf("chunk (%d,%d): length %d: %w", lx, lz, length, ErrCorruptChunk)
	}
	compressed := make([]byte, length-1)
	if _, err := f.ReadAt(compressed, offset+5); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read chunk payload: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress chunk (%d,%d): %w", lx, lz, err)
	}
	if len(raw) != payloadSize {
		return nil, fmt.Errorf("chunk (%d,%d): payload is %d bytes, want %d", lx, lz, len(raw), payloadSize)
	}

	cd := &ChunkData{}
	for i := range cellsPerChunk {
		cd.Elevation[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		cd.Terrain[i] = tile.Terrain(raw[cellsPerChunk*4+i])
	}
	return cd, nil
}
