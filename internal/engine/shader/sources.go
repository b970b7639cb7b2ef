package shader

import "fmt"

// Built-in shader sources. Attribute locations are bound by name (see
// attribNames); uniform names follow the fixed set cached in Locations.

const vsUnlit = `
	#version 410 core

	in vec3 aPosition;
	in vec2 aTexCoord0;
	in vec2 aTexCoord1;
	in vec4 aColor;

	uniform mat4 uWorldViewProj;

	out vec2 vTexCoord0;
	out vec2 vTexCoord1;
	out vec4 vColor;

	void main() {
		gl_Position = uWorldViewProj * vec4(aPosition, 1.0);
		vTexCoord0 = aTexCoord0;
		vTexCoord1 = aTexCoord1;
		vColor = aColor;
	}
`

// Per-vertex lighting: 4 point lights with distance attenuation plus one
// directional light plus ambient. uLightPositions packs xyz + reciprocal
// radius per slot; uLightColors carries the 4 light colors and ambient in
// slot 5. Light positions arrive in object space unless the program is
// flagged for world-space lights.
const vsLit = `
	#version 410 core

	in vec3 aPosition;
	in vec3 aNormal;
	in vec2 aTexCoord0;
	in vec2 aTexCoord1;
	in vec4 aColor;

	uniform mat4 uWorldViewProj;
	uniform vec4 uLightPositions[4];
	uniform vec4 uLightColors[5];
	uniform vec3 uDirLightDir;
	uniform vec4 uDirLightColor;

	out vec2 vTexCoord0;
	out vec2 vTexCoord1;
	out vec4 vColor;

	void main() {
		gl_Position = uWorldViewProj * vec4(aPosition, 1.0);
		vTexCoord0 = aTexCoord0;
		vTexCoord1 = aTexCoord1;

		vec3 n = normalize(aNormal);
		vec3 lighting = uLightColors[4].rgb;
		for (int i = 0; i < 4; ++i) {
			vec3 toLight = uLightPositions[i].xyz - aPosition;
			float dist = length(toLight);
			float att = clamp(1.0 - dist * uLightPositions[i].w, 0.0, 1.0);
			float diff = max(dot(n, toLight / max(dist, 0.0001)), 0.0);
			lighting += uLightColors[i].rgb * diff * att;
		}
		lighting += uDirLightColor.rgb * max(dot(n, -uDirLightDir), 0.0);
		vColor = vec4(clamp(lighting, 0.0, 1.0), 1.0) * aColor;
	}
`

// Reflection variant: the second texcoord pair is derived from the
// view-space normal (sphere mapping) instead of the vertex data.
const vsReflection = `
	#version 410 core

	in vec3 aPosition;
	in vec3 aNormal;
	in vec2 aTexCoord0;
	in vec4 aColor;

	uniform mat4 uWorldViewProj;
	uniform mat4 uModelView;
	uniform mat4 uNormalMatrix;

	out vec2 vTexCoord0;
	out vec2 vTexCoord1;
	out vec4 vColor;

	void main() {
		gl_Position = uWorldViewProj * vec4(aPosition, 1.0);
		vTexCoord0 = aTexCoord0;

		vec3 viewNormal = normalize(mat3(uNormalMatrix) * aNormal);
		vec3 viewPos = normalize((uModelView * vec4(aPosition, 1.0)).xyz);
		vec3 r = reflect(viewPos, viewNormal);
		float m = 2.0 * sqrt(r.x * r.x + r.y * r.y + (r.z + 1.0) * (r.z + 1.0));
		vTexCoord1 = vec2(r.x / m + 0.5, r.y / m + 0.5);
		vColor = aColor;
	}
`

// Normal mapping works in world space: light positions are uploaded
// untransformed and the fragment stage evaluates them against the
// tangent-space normal.
const vsNormalMap = `
	#version 410 core

	in vec3 aPosition;
	in vec3 aNormal;
	in vec2 aTexCoord0;
	in vec4 aColor;
	in vec3 aBinormal;
	in vec3 aTangent;

	uniform mat4 uWorldViewProj;
	uniform mat4 uModelWorld;

	out vec2 vTexCoord0;
	out vec3 vWorldPos;
	out mat3 vTBN;
	out vec4 vColor;

	void main() {
		gl_Position = uWorldViewProj * vec4(aPosition, 1.0);
		vTexCoord0 = aTexCoord0;
		vWorldPos = (uModelWorld * vec4(aPosition, 1.0)).xyz;
		vec3 t = normalize(mat3(uModelWorld) * aTangent);
		vec3 b = normalize(mat3(uModelWorld) * aBinormal);
		vec3 n = normalize(mat3(uModelWorld) * aNormal);
		vTBN = mat3(t, b, n);
		vColor = aColor;
	}
`

const fsSolid = `
	#version 410 core

	uniform sampler2D uTexture0;

	in vec2 vTexCoord0;
	in vec2 vTexCoord1;
	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		FragColor = texture(uTexture0, vTexCoord0) * vColor;
	}
`

// The lightmap modulate variants share one source with the modulation
// factor baked in per variant; a uniform would be one more thing for every
// draw to upload for a constant.
const fsLightmapFmt = `
	#version 410 core

	uniform sampler2D uTexture0;
	uniform sampler2D uTexture1;

	in vec2 vTexCoord0;
	in vec2 vTexCoord1;
	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		vec4 base = texture(uTexture0, vTexCoord0);
		vec4 lm = texture(uTexture1, vTexCoord1);
		FragColor = vec4(base.rgb * lm.rgb * %s, base.a) * vColor;
	}
`

var (
	fsLightmap   = fmt.Sprintf(fsLightmapFmt, "1.0")
	fsLightmapM2 = fmt.Sprintf(fsLightmapFmt, "2.0")
	fsLightmapM4 = fmt.Sprintf(fsLightmapFmt, "4.0")
)

const fsLightmapAdd = `
	#version 410 core

	uniform sampler2D uTexture0;
	uniform sampler2D uTexture1;

	in vec2 vTexCoord0;
	in vec2 vTexCoord1;
	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		FragColor = (texture(uTexture0, vTexCoord0) + texture(uTexture1, vTexCoord1)) * vColor;
	}
`

const fsTransparentAlpha = `
	#version 410 core

	uniform sampler2D uTexture0;

	in vec2 vTexCoord0;
	in vec2 vTexCoord1;
	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		FragColor = texture(uTexture0, vTexCoord0) * vColor;
	}
`

const fsTransparentAlphaRef = `
	#version 410 core

	uniform sampler2D uTexture0;

	in vec2 vTexCoord0;
	in vec2 vTexCoord1;
	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		vec4 c = texture(uTexture0, vTexCoord0) * vColor;
		if (c.a < 0.5) {
			discard;
		}
		FragColor = c;
	}
`

const fsTwoLayer = `
	#version 410 core

	uniform sampler2D uTexture0;
	uniform sampler2D uTexture1;

	in vec2 vTexCoord0;
	in vec2 vTexCoord1;
	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		vec4 a = texture(uTexture0, vTexCoord0);
		vec4 b = texture(uTexture1, vTexCoord1);
		FragColor = vec4(mix(a.rgb, b.rgb, 0.5), a.a) * vColor;
	}
`

// Vertex-alpha two-texture blend: the vertex alpha selects between the two
// texture layers.
const fsTwoTextureBlend = `
	#version 410 core

	uniform sampler2D uTexture0;
	uniform sampler2D uTexture1;

	in vec2 vTexCoord0;
	in vec2 vTexCoord1;
	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		vec4 a = texture(uTexture0, vTexCoord0);
		vec4 b = texture(uTexture1, vTexCoord1);
		FragColor = vec4(mix(a.rgb, b.rgb, vColor.a) * vColor.rgb, a.a);
	}
`

const fsNormalMap = `
	#version 410 core

	uniform sampler2D uTexture0;
	uniform sampler2D uTexture1;
	uniform vec4 uLightPositions[4];
	uniform vec4 uLightColors[5];
	uniform vec3 uDirLightDir;
	uniform vec4 uDirLightColor;

	in vec2 vTexCoord0;
	in vec3 vWorldPos;
	in mat3 vTBN;
	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		vec3 n = normalize(vTBN * (texture(uTexture1, vTexCoord0).rgb * 2.0 - 1.0));
		vec3 lighting = uLightColors[4].rgb;
		for (int i = 0; i < 4; ++i) {
			vec3 toLight = uLightPositions[i].xyz - vWorldPos;
			float dist = length(toLight);
			float att = clamp(1.0 - dist * uLightPositions[i].w, 0.0, 1.0);
			float diff = max(dot(n, toLight / max(dist, 0.0001)), 0.0);
			lighting += uLightColors[i].rgb * diff * att;
		}
		lighting += uDirLightColor.rgb * max(dot(n, -uDirLightDir), 0.0);
		vec4 base = texture(uTexture0, vTexCoord0) * vColor;
		FragColor = vec4(base.rgb * clamp(lighting, 0.0, 1.0), base.a);
	}
`

// 2D overlay programs. Vertices arrive in normalized device coordinates so
// no matrix is involved.
const vs2D = `
	#version 410 core

	in vec3 aPosition;
	in vec2 aTexCoord0;

	out vec2 vTexCoord0;

	void main() {
		gl_Position = vec4(aPosition, 1.0);
		vTexCoord0 = aTexCoord0;
	}
`

const fs2DColor = `
	#version 410 core

	uniform vec4 uColor;

	out vec4 FragColor;

	void main() {
		FragColor = uColor;
	}
`

const fs2DImage = `
	#version 410 core

	uniform sampler2D uTexture0;

	in vec2 vTexCoord0;
	out vec4 FragColor;

	void main() {
		FragColor = texture(uTexture0, vTexCoord0);
	}
`
