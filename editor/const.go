package editor

// 宿主块类型标记，来自渲染元素的 data-type 属性。
const (
	TypeInlineMath      = "inline-math"
	TypeMathBlock       = "NodeMathBlock"
	TypeBlockQueryEmbed = "NodeBlockQueryEmbed"
	TypeHTMLBlock       = "NodeHTMLBlock"
)

// EventOpenNoneditableBlock 宿主打开不可编辑块时在事件总线上发出的事件名。
const EventOpenNoneditableBlock = "open-noneditableblock"

// StorageName 插件配置的持久化键。
const StorageName = "menu-config"

// ContainerID 编辑器容器元素 ID。
const ContainerID = "editorEnhanceContainer"

// ContainerClass 编辑器容器样式类，沿用宿主文本框样式。
const ContainerClass = "b3-text-field--text"

// ContainerStyle 编辑器容器内联样式。
const ContainerStyle = "width:100%;max-height: calc(-44px + 80vh); min-height: 48px; min-width: 268px; border-radius: 0 0 var(--b3-border-radius-b) var(--b3-border-radius-b); font-family: var(--b3-font-family-code);position:relative"

// DragHandleStyle 右下角拖拽手柄样式。
const DragHandleStyle = "width: 0px; height: 0px; border-bottom:1em solid grey;border-left:1em solid transparent;position:absolute;bottom: 0;right: 0;cursor: nwse-resize;z-index:1"

// ModeSelectStyle 格式化模式选择框样式。
const ModeSelectStyle = "position:absolute;top:6px;right:8px;z-index:2;font-size:12px;padding:2px;background:var(--b3-theme-background);border:1px solid var(--b3-theme-surface-lighter);border-radius:4px;color:var(--b3-theme-on-surface)"

// NoticeStyle 临时提示样式。
const NoticeStyle = "position:absolute;top:6px;right:52px;z-index:3;padding:2px 6px;border-radius:4px;background:var(--b3-theme-surface);color:var(--b3-theme-on-surface);border:1px solid var(--b3-theme-surface-lighter);font-size:12px;opacity:0.95;pointer-events:none"

// ScrollerSelector 编辑区滚动容器选择器。
const ScrollerSelector = ".cm-scroller"

// 键名。
const (
	KeyEnter  = "Enter"
	KeyEscape = "Escape"

	KeyCodeEnter  = 13
	KeyCodeEscape = 27
)

// 快捷键，Mod 在 macOS 上为 Cmd，其他平台为 Ctrl。
const (
	ShortcutSearch  = "Mod-f"
	ShortcutUndo    = "Mod-z"
	ShortcutRedo    = "Mod-y"
	ShortcutConfirm = "Mod-Enter"
	ShortcutCancel  = "Escape"
	ShortcutFormat  = "Alt-Shift-f"
)

// ScriptMarker 嵌入块内容以该标记开头时按 JavaScript 编辑。
const ScriptMarker = "//!js"

// ScriptMarkerWindow 检测脚本标记的前缀长度。
const ScriptMarkerWindow = 20
