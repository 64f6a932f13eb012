package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/penguin-paradise/engine/camera"
	"github.com/Carmen-Shannon/penguin-paradise/engine/light"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
	"github.com/Carmen-Shannon/penguin-paradise/engine/renderer/shader"
)

const objectSource = `
struct Object {
    model: mat4x4<f32>,
    normal: mat4x4<f32>,
    baseColor: vec4<f32>,
    params: vec4<f32>,
};

@group(1) @binding(0) var<uniform> u_object: Object;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
};
`

const frameSource = `
struct Frame {
    camera: CameraUniform,
    lights: Lights,
    fog: vec4<f32>,
    shadow: Shadow,
};

@group(0) @binding(0) var<uniform> u_frame: Frame;
@group(0) @binding(1) var shadowMap: texture_depth_2d;
@group(0) @binding(2) var shadowSampler: sampler_comparison;

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) world: vec3<f32>,
    @location(1) normal: vec3<f32>,
};

@vertex
fn vs_main(vin: VertexInput) -> VertexOutput {
    var result: VertexOutput;
    let world = u_object.model * vec4<f32>(vin.position, 1.0);
    result.clip = u_frame.camera.viewProj * world;
    result.world = world.xyz;
    result.normal = (u_object.normal * vec4<f32>(vin.normal, 0.0)).xyz;
    return result;
}

// 3x3 PCF over the directional shadow map; 1.0 is fully lit.
fn shadowFactor(world: vec3<f32>, n: vec3<f32>) -> f32 {
    let s = u_frame.shadow;
    if (s.params.w < 0.5 || u_object.params.z < 0.5) {
        return 1.0;
    }
    let clip = s.lightViewProj * vec4<f32>(world + n * s.params.z, 1.0);
    let ndc = clip.xyz / clip.w;
    let uv = vec2<f32>(ndc.x * 0.5 + 0.5, 0.5 - ndc.y * 0.5);
    if (any(uv < vec2<f32>(0.0)) || any(uv > vec2<f32>(1.0)) || ndc.z > 1.0) {
        return 1.0;
    }

    var lit = 0.0;
    for (var x: i32 = -1; x <= 1; x = x + 1) {
        for (var y: i32 = -1; y <= 1; y = y + 1) {
            let offset = vec2<f32>(f32(x), f32(y)) * s.params.x;
            lit += textureSampleCompareLevel(shadowMap, shadowSampler, uv + offset, ndc.z - s.params.y);
        }
    }
    return lit / 9.0;
}

@fragment
fn fs_main(vout: VertexOutput) -> @location(0) vec4<f32> {
    let n = normalize(vout.normal);
    let lights = u_frame.lights;
    let shadow = shadowFactor(vout.world, n);

    var lit = lights.ambient.rgb;

    let toLight = -normalize(lights.dirDirection.xyz);
    lit += lights.dirColor.rgb * max(dot(n, toLight), 0.0) * shadow;

    let hemi = dot(n, normalize(lights.hemiUp.xyz)) * 0.5 + 0.5;
    lit += mix(lights.hemiGround.rgb, lights.hemiSky.rgb, hemi);

    let toEye = normalize(u_frame.camera.cameraPosition - vout.world);
    let halfway = normalize(toLight + toEye);
    let shininess = mix(64.0, 2.0, u_object.params.y);
    let specular = pow(max(dot(n, halfway), 0.0), shininess) * (1.0 - u_object.params.y) * 0.5 * shadow;

    let albedo = u_object.baseColor.rgb * mix(1.0, 0.5, u_object.params.x);
    var color = albedo * lit + lights.dirColor.rgb * specular;

    let dist = distance(u_frame.camera.cameraPosition, vout.world);
    let fogAmount = 1.0 - exp(-(u_frame.fog.w * dist) * (u_frame.fog.w * dist));
    color = mix(color, u_frame.fog.rgb, clamp(fogAmount, 0.0, 1.0));

    return vec4<f32>(color, u_object.baseColor.a);
}
`

const shadowPassSource = `
struct ShadowPass {
    lightViewProj: mat4x4<f32>,
};

@group(0) @binding(0) var<uniform> u_shadow: ShadowPass;

@vertex
fn vs_shadow(vin: VertexInput) -> @builtin(position) vec4<f32> {
    return u_shadow.lightViewProj * u_object.model * vec4<f32>(vin.position, 1.0);
}
`

// litShaderSource is the WGSL module shared by the opaque and translucent pipelines.
var litShaderSource = camera.GPUCameraUniformSource + "\n" + light.GPULightsSource + "\n" +
	light.GPUShadowSource + "\n" + objectSource + frameSource

// shadowShaderSource is the depth-only module drawn from the light.
var shadowShaderSource = objectSource + shadowPassSource

// uniformVisibility is the stage set every lit binding is visible to.
const uniformVisibility = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment

// reflectLitShader reflects source and checks that its uniforms and vertex input
// agree with the Go types the renderer writes.
//
// Parameters:
//   - source: a WGSL module using the Frame and Object bindings
//
// Returns:
//   - *shader.Reflection: the reflected layouts
//   - error: a description of the first mismatch
func reflectLitShader(source string) (*shader.Reflection, error) {
	var frame GPUFrameUniform
	var object GPUObjectUniform
	return reflectChecked("lit", source, uint64(frame.Size()), uint64(object.Size()))
}

// reflectShadowShader is reflectLitShader for the depth-only module, whose group 0
// holds only the light view-projection.
func reflectShadowShader(source string) (*shader.Reflection, error) {
	var object GPUObjectUniform
	return reflectChecked("shadow", source, shadowPassSize, uint64(object.Size()))
}

func reflectChecked(name, source string, group0, group1 uint64) (*shader.Reflection, error) {
	refl, err := shader.Reflect(source, uniformVisibility)
	if err != nil {
		return nil, err
	}

	for group, want := range []uint64{group0, group1} {
		if got := refl.BindingSize(group, 0); got != want {
			return nil, fmt.Errorf("%s shader: group %d uniform is %d bytes, host writes %d", name, group, got, want)
		}
	}

	if stride := refl.VertexLayouts[0].ArrayStride; stride != model.VertexStride {
		return nil, fmt.Errorf("%s shader: vertex stride %d, mesh stride %d", name, stride, model.VertexStride)
	}
	return refl, nil
}
