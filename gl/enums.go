package gl

// Enum is a GL enumerant. Values match the OpenGL headers so backends can pass
// them straight through to the driver.
type Enum = uint32

// Capabilities.
const (
	CULL_FACE    Enum = 0x0B44
	DEPTH_TEST   Enum = 0x0B71
	STENCIL_TEST Enum = 0x0B90
	BLEND        Enum = 0x0BE2
	SCISSOR_TEST Enum = 0x0C11
)

// Blend factors.
const (
	ZERO                Enum = 0
	ONE                 Enum = 1
	SRC_COLOR           Enum = 0x0300
	ONE_MINUS_SRC_COLOR Enum = 0x0301
	SRC_ALPHA           Enum = 0x0302
	ONE_MINUS_SRC_ALPHA Enum = 0x0303
	DST_ALPHA           Enum = 0x0304
	ONE_MINUS_DST_ALPHA Enum = 0x0305
	DST_COLOR           Enum = 0x0306
	ONE_MINUS_DST_COLOR Enum = 0x0307
)

// Blend equations.
const (
	FUNC_ADD              Enum = 0x8006
	MIN                   Enum = 0x8007
	MAX                   Enum = 0x8008
	FUNC_SUBTRACT         Enum = 0x800A
	FUNC_REVERSE_SUBTRACT Enum = 0x800B
)

// Faces and winding.
const (
	FRONT          Enum = 0x0404
	BACK           Enum = 0x0405
	FRONT_AND_BACK Enum = 0x0408
	CW             Enum = 0x0900
	CCW            Enum = 0x0901
)

// Depth functions.
const (
	NEVER    Enum = 0x0200
	LESS     Enum = 0x0201
	EQUAL    Enum = 0x0202
	LEQUAL   Enum = 0x0203
	GREATER  Enum = 0x0204
	NOTEQUAL Enum = 0x0205
	GEQUAL   Enum = 0x0206
	ALWAYS   Enum = 0x0207
)

// Clear mask bits.
const (
	DEPTH_BUFFER_BIT   Enum = 0x00000100
	STENCIL_BUFFER_BIT Enum = 0x00000400
	COLOR_BUFFER_BIT   Enum = 0x00004000
)

// Buffer targets and usage.
const (
	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STREAM_DRAW          Enum = 0x88E0
	STATIC_DRAW          Enum = 0x88E4
	DYNAMIC_DRAW         Enum = 0x88E8
)

// Component types.
const (
	BYTE           Enum = 0x1400
	UNSIGNED_BYTE  Enum = 0x1401
	SHORT          Enum = 0x1402
	UNSIGNED_SHORT Enum = 0x1403
	INT            Enum = 0x1404
	UNSIGNED_INT   Enum = 0x1405
	FLOAT          Enum = 0x1406
)

// Primitive modes.
const (
	POINTS         Enum = 0x0000
	LINES          Enum = 0x0001
	LINE_LOOP      Enum = 0x0002
	LINE_STRIP     Enum = 0x0003
	TRIANGLES      Enum = 0x0004
	TRIANGLE_STRIP Enum = 0x0005
	TRIANGLE_FAN   Enum = 0x0006
)

// Shader stages.
const (
	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31
)

// Active uniform / attribute types.
const (
	FLOAT_VEC2              Enum = 0x8B50
	FLOAT_VEC3              Enum = 0x8B51
	FLOAT_VEC4              Enum = 0x8B52
	INT_VEC2                Enum = 0x8B53
	INT_VEC3                Enum = 0x8B54
	INT_VEC4                Enum = 0x8B55
	BOOL                    Enum = 0x8B56
	BOOL_VEC2               Enum = 0x8B57
	BOOL_VEC3               Enum = 0x8B58
	BOOL_VEC4               Enum = 0x8B59
	FLOAT_MAT2              Enum = 0x8B5A
	FLOAT_MAT3              Enum = 0x8B5B
	FLOAT_MAT4              Enum = 0x8B5C
	SAMPLER_2D              Enum = 0x8B5E
	SAMPLER_3D              Enum = 0x8B5F
	SAMPLER_CUBE            Enum = 0x8B60
	SAMPLER_2D_ARRAY        Enum = 0x8DC1
	UNSIGNED_INT_SAMPLER_2D Enum = 0x8DD2
)

// Textures.
const (
	TEXTURE_2D            Enum = 0x0DE1
	TEXTURE0              Enum = 0x84C0
	TEXTURE_MAG_FILTER    Enum = 0x2800
	TEXTURE_MIN_FILTER    Enum = 0x2801
	TEXTURE_WRAP_S        Enum = 0x2802
	TEXTURE_WRAP_T        Enum = 0x2803
	NEAREST               Enum = 0x2600
	LINEAR                Enum = 0x2601
	NEAREST_MIPMAP_LINEAR Enum = 0x2702
	LINEAR_MIPMAP_LINEAR  Enum = 0x2703
	REPEAT                Enum = 0x2901
	CLAMP_TO_EDGE         Enum = 0x812F
	MIRRORED_REPEAT       Enum = 0x8370
	DEPTH_COMPONENT       Enum = 0x1902
	RGB                   Enum = 0x1907
	RGBA                  Enum = 0x1908
	RGBA8                 Enum = 0x8058
	DEPTH_COMPONENT16     Enum = 0x81A5
	DEPTH_COMPONENT24     Enum = 0x81A6
)

// Pixel storage. The two WebGL flags have no desktop equivalent; backends
// that lack them emulate them on the CPU at upload time.
const (
	UNPACK_ALIGNMENT               Enum = 0x0CF5
	UNPACK_FLIP_Y_WEBGL            Enum = 0x9240
	UNPACK_PREMULTIPLY_ALPHA_WEBGL Enum = 0x9241
)

// Framebuffers.
const (
	FRAMEBUFFER          Enum = 0x8D40
	RENDERBUFFER         Enum = 0x8D41
	COLOR_ATTACHMENT0    Enum = 0x8CE0
	DEPTH_ATTACHMENT     Enum = 0x8D00
	FRAMEBUFFER_COMPLETE Enum = 0x8CD5
)

// Integer parameters.
const (
	MAX_TEXTURE_SIZE                 Enum = 0x0D33
	MAX_VERTEX_ATTRIBS               Enum = 0x8869
	MAX_COMBINED_TEXTURE_IMAGE_UNITS Enum = 0x8B4D
)

// MatrixLocations reports how many consecutive attribute locations an
// attribute of the given type occupies.
func MatrixLocations(typ Enum) int {
	switch typ {
	case FLOAT_MAT2:
		return 2
	case FLOAT_MAT3:
		return 3
	case FLOAT_MAT4:
		return 4
	}
	return 1
}
