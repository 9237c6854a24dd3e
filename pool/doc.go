// Package pool
// Author: momentics <momentics@gmail.com>
//
// Recycled memory for real-time code paths. MemoryPool lends out resizable
// byte buffers from a free list and takes them back by address or handle;
// Resource and LockedPool expose it as an api.MemoryResource. StaticVector
// is a fixed-capacity sequence that never grows.
package pool
