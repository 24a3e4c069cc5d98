// Package protocol implements the binary wire format used to stream host
// operations from a render to a remote host.
//
// # Wire Format
//
// Every message is a frame with a 5-byte header:
//
//	┌─────────────┬───────────────────────────────┐
//	│ Frame Type  │ Payload Length                │
//	│ (1 byte)    │ (4 bytes, big-endian)         │
//	└─────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameOps (0x01): A batch of host operations produced by one slice
//   - FrameDone (0x02): The render completed
//   - FrameError (0x03): The render failed or was superseded
//
// # Operations
//
// An ops payload is a varint count followed by that many operations:
//
//	[Op: 0x01][ID: varint][Kind: len-prefixed]                 CreateElement
//	[Op: 0x02][ID: varint]                                     CreateText
//	[Op: 0x03][ID: varint][Name: len-prefixed][Value: tagged]  SetProperty
//	[Op: 0x04][Parent: varint][Child: varint]                  AppendChild
//
// Node IDs are assigned by the sender; ID 0 is the render container.
// Property values are tagged: 0x01 string, 0x02 bool, 0x03 zigzag int.
//
// # Usage Example
//
//	ops := []Op{
//	    {Code: OpCreateElement, ID: 1, Name: "div"},
//	    {Code: OpAppendChild, Parent: 0, ID: 1},
//	}
//	data := NewFrame(FrameOps, EncodeOps(ops)).Encode()
//
//	frame, err := DecodeFrame(data)
//	if err != nil {
//	    // Handle error
//	}
//	decoded, err := DecodeOps(frame.Payload)
package protocol
