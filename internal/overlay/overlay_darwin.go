//go:build darwin

package overlay

/*
#cgo darwin CFLAGS: -x objective-c -fobjc-arc
#cgo darwin LDFLAGS: -framework Cocoa
#include <Cocoa/Cocoa.h>
#include <stdlib.h>

static int setWindowIgnoresMouse(const char *title, int ignore) {
	NSString *want = [NSString stringWithUTF8String:title];
	__block int found = 0;
	void (^apply)(void) = ^{
		for (NSWindow *w in [NSApp windows]) {
			if ([[w title] isEqualToString:want]) {
				[w setIgnoresMouseEvents:(ignore ? YES : NO)];
				found = 1;
			}
		}
	};
	if ([NSThread isMainThread]) {
		apply();
	} else {
		dispatch_sync(dispatch_get_main_queue(), apply);
	}
	return found;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

func setIgnoreCursorEvents(title string, ignore bool) error {
	cTitle := C.CString(title)
	defer C.free(unsafe.Pointer(cTitle))

	flag := C.int(0)
	if ignore {
		flag = 1
	}
	if C.setWindowIgnoresMouse(cTitle, flag) == 0 {
		return fmt.Errorf("%w: %q", ErrWindowNotFound, title)
	}
	return nil
}
