package renderer

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// VertexBuffer owns one GL array buffer.
type VertexBuffer struct {
	id uint32
}

func NewVertexBuffer(data []float32) *VertexBuffer {
	vb := &VertexBuffer{}
	gl.GenBuffers(1, &vb.id)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	return vb
}

func (vb *VertexBuffer) Bind() {
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)
}

func (vb *VertexBuffer) Unbind() {
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (vb *VertexBuffer) Destroy() {
	gl.DeleteBuffers(1, &vb.id)
}

// IndexBuffer owns one GL element array buffer holding uint32 indices.
type IndexBuffer struct {
	id    uint32
	count int32
}

func NewIndexBuffer(indices []uint32) *IndexBuffer {
	ib := &IndexBuffer{count: int32(len(indices))}
	gl.GenBuffers(1, &ib.id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	return ib
}

func (ib *IndexBuffer) Bind() {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)
}

func (ib *IndexBuffer) Unbind() {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
}

// Count returns the number of indices, the count argument for DrawElements.
func (ib *IndexBuffer) Count() int32 {
	return ib.count
}

func (ib *IndexBuffer) Destroy() {
	gl.DeleteBuffers(1, &ib.id)
}

// Layout describes consecutive float vertex attributes.
type Layout struct {
	counts []int32
	stride int32
}

// PushFloats appends an attribute of count floats.
func (l *Layout) PushFloats(count int32) {
	l.counts = append(l.counts, count)
	l.stride += count * 4
}

// VertexArray owns one VAO.
type VertexArray struct {
	id uint32
}

func NewVertexArray() *VertexArray {
	va := &VertexArray{}
	gl.GenVertexArrays(1, &va.id)
	return va
}

// AddBuffer binds vb into the array with the attribute layout, attribute
// indices assigned in push order.
func (va *VertexArray) AddBuffer(vb *VertexBuffer, layout *Layout) {
	va.Bind()
	vb.Bind()
	offset := 0
	for i, count := range layout.counts {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointer(uint32(i), count, gl.FLOAT, false, layout.stride, gl.PtrOffset(offset))
		offset += int(count) * 4
	}
}

func (va *VertexArray) Bind() {
	gl.BindVertexArray(va.id)
}

func (va *VertexArray) Unbind() {
	gl.BindVertexArray(0)
}

func (va *VertexArray) Destroy() {
	gl.DeleteVertexArrays(1, &va.id)
}
