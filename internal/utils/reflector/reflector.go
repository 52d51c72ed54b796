package reflector

import (
	"math"
	"reflect"
)

func setInt(f *reflect.Value, value interface{}) {
	switch valueTyped := value.(type) {
	case int:
		f.SetInt(int64(valueTyped))
	case int8:
		f.SetInt(int64(valueTyped))
	case int16:
		f.SetInt(int64(valueTyped))
	case int32:
		f.SetInt(int64(valueTyped))
	case int64:
		f.SetInt(valueTyped)
	case uint:
		f.SetInt(int64(valueTyped))
	case uint8:
		f.SetInt(int64(valueTyped))
	case uint16:
		f.SetInt(int64(valueTyped))
	case uint32:
		f.SetInt(int64(valueTyped))
	case uint64:
		f.SetInt(int64(valueTyped))
	case float32:
		f.SetInt(int64(valueTyped))
	case float64:
		f.SetInt(int64(valueTyped))
	}
}

func setUint(f *reflect.Value, value interface{}) {
	switch valueTyped := value.(type) {
	case int:
		f.SetUint(uint64(math.Abs(float64(valueTyped))))
	case int8:
		f.SetUint(uint64(math.Abs(float64(valueTyped))))
	case int16:
		f.SetUint(uint64(math.Abs(float64(valueTyped))))
	case int32:
		f.SetUint(uint64(math.Abs(float64(valueTyped))))
	case int64:
		f.SetUint(uint64(math.Abs(float64(valueTyped))))
	case uint:
		f.SetUint(uint64(valueTyped))
	case uint8:
		f.SetUint(uint64(valueTyped))
	case uint16:
		f.SetUint(uint64(valueTyped))
	case uint32:
		f.SetUint(uint64(valueTyped))
	case uint64:
		f.SetUint(valueTyped)
	case float32:
		f.SetUint(uint64(math.Abs(float64(valueTyped))))
	case float64:
		f.SetUint(uint64(math.Abs(valueTyped)))
	}
}

func setFloat(f *reflect.Value, value interface{}) {
	switch valueTyped := value.(type) {
	case float32:
		f.SetFloat(float64(valueTyped))
	case float64:
		f.SetFloat(valueTyped)
	case int:
		f.SetFloat(float64(valueTyped))
	case uint:
		f.SetFloat(float64(valueTyped))
	}
}

func setStructPropertyByName(name string, value interface{}, dst interface{}) {
	dstValue := reflect.ValueOf(dst)
	if dstValue.Kind() != reflect.Ptr {
		return
	}

	s := dstValue.Elem()
	if s.Kind() != reflect.Struct {
		return
	}

	f := s.FieldByName(name)
	if !f.IsValid() || !f.CanSet() {
		return
	}

	switch f.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		setUint(&f, value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		setInt(&f, value)
	case reflect.Float32, reflect.Float64:
		setFloat(&f, value)
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			f.SetBool(b)
		}
	case reflect.String:
		if str, ok := value.(string); ok {
			f.SetString(str)
		}
	}
}

// SetStructProperties copies values from a decoded JSON map onto matching
// exported fields of dst, which must be a struct pointer. Unknown keys and
// unconvertible values are ignored.
func SetStructProperties(srcMap map[string]interface{}, dst interface{}) {
	for key, value := range srcMap {
		setStructPropertyByName(key, value, dst)
	}
}
