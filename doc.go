// Package peekviz is a visual printf for computer vision programs: a small
// toolkit for pushing 3D scenes, images and tweakable controls from an
// application loop into a live view.
//
// The application obtains a [Manager] through [Run] (in-process window) or
// [Serve] (headless, remote viewers connect over a websocket), registers
// widgets and controls on it, and calls [Manager.Sync] once per loop
// iteration to exchange state with the presentation side.
package peekviz

import (
	"github.com/peekviz/peekviz/entity"
	"github.com/peekviz/peekviz/pose"
)

// Entity is renderable 3D content, re-exported from the entity package for
// use in [Widget3] calls.
type Entity = entity.Entity

// Pose is a rigid transform placing an entity in the scene frame,
// re-exported from the pose package.
type Pose = pose.Isometry
