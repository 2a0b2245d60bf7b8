package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/depthview/internal/engine/scene"
)

// gpuMesh is the uploaded form of a geometry: one VBO per attribute plus indices.
type gpuMesh struct {
	vao  uint32
	vbos [3]uint32
	ebo  uint32
}

// mesh returns the GPU mesh for g, uploading it on first use.
func (r *Renderer) mesh(g *scene.Geometry) *gpuMesh {
	if m, ok := r.meshes[g]; ok {
		return m
	}

	m := &gpuMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(3, &m.vbos[0])
	attribute(m.vbos[0], 0, 3, g.Positions)
	attribute(m.vbos[1], 1, 3, g.Normals)
	attribute(m.vbos[2], 2, 2, g.UVs)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.meshes[g] = m
	r.log.Debug("mesh uploaded",
		zap.Int("vertices", g.VertexCount()),
		zap.Int("indices", len(g.Indices)),
		zap.Uint32("vao", m.vao),
	)
	return m
}

// attribute uploads data to vbo and binds it to location. Missing attributes stay
// disabled and read as zero.
func attribute(vbo, location uint32, size int32, data []float32) {
	if len(data) == 0 {
		gl.DisableVertexAttribArray(location)
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.VertexAttribPointer(location, size, gl.FLOAT, false, size*4, nil)
	gl.EnableVertexAttribArray(location)
}

func (m *gpuMesh) release() {
	gl.DeleteBuffers(3, &m.vbos[0])
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteVertexArrays(1, &m.vao)
}
