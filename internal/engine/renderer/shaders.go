package renderer

// Lighting mirrors raster.LightConfig.Shade: faces are lit from both sides
// in view space.
const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uMVP;
uniform mat4 uModelView;
uniform vec4 uClip;

out vec3 vNormal;

void main() {
	vec4 viewPos = uModelView * vec4(aPos, 1.0);
	vNormal = mat3(uModelView) * aNormal;
	gl_ClipDistance[0] = dot(uClip.xyz, viewPos.xyz) + uClip.w;
	gl_Position = uMVP * vec4(aPos, 1.0);
}
`

const fragmentShader = `
#version 410 core

in vec3 vNormal;
out vec4 FragColor;

uniform vec4 uColor;
uniform float uFlat;
uniform vec3 uLightDir;
uniform vec3 uRimDir;
uniform vec3 uHalf;
uniform vec4 uLightTerms; // ambient, direct, rim, specular power

const float specIntensity = 0.35;

void main() {
	if (uFlat > 0.5) {
		FragColor = uColor;
		return;
	}
	vec3 n = normalize(vNormal);
	float shade = uLightTerms.x
		+ abs(dot(n, uLightDir)) * uLightTerms.y
		+ abs(dot(n, uRimDir)) * uLightTerms.z;
	float spec = pow(abs(dot(n, uHalf)), uLightTerms.w) * specIntensity;
	FragColor = vec4(uColor.rgb * shade + spec, uColor.a);
}
`
