package main

/*
#include <stdlib.h>
*/
import "C"
import "unsafe"

//export griddb_open_memory
func griddb_open_memory() C.int {
	return C.int(openMemory())
}

//export griddb_open_file
func griddb_open_file(path *C.char) C.int {
	return C.int(openFile(C.GoString(path)))
}

//export griddb_close
func griddb_close(handle C.int) {
	closeHandle(int(handle))
}

// griddb_execute runs a JSON command. The caller frees the result with
// griddb_free.
//
//export griddb_execute
func griddb_execute(handle C.int, command *C.char) *C.char {
	return C.CString(execute(int(handle), C.GoString(command)))
}

//export griddb_free
func griddb_free(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

func main() {}
