// ABOUTME: Built-in fallback scenarios (medical, security, traffic) and their keyword rules.
// ABOUTME: These are shown whenever a generated plan is unavailable.
package emergency

// Scenario names.
const (
	ScenarioMedical  = "medical"
	ScenarioSecurity = "security"
	ScenarioTraffic  = "traffic"
)

var (
	securityKeywords = []string{"抢劫", "偷", "打架", "危险"}
	trafficKeywords  = []string{"车祸", "撞", "车", "故障"}
)

// MedicalScenario is the default fallback.
var MedicalScenario = Scenario{
	Name: ScenarioMedical,
	Events: []PlaybackEvent{
		{ID: "1", Source: NodeMe, Target: NodeNetwork, Message: "📡 正在向 847,392 个 AI 广播求救信号...", Kind: KindBroadcast},
		{ID: "2", Source: NodeNetwork, Target: NodeMe, Message: "✅ 找到 医学翻译AI (#A7B2)", Kind: KindFound},
		{ID: "3", Source: NodeNurse, Target: NodeMe, Message: "我的主人是东京护士，我能翻译医疗术语", Kind: KindNegotiate},
		{ID: "4", Source: NodeNetwork, Target: NodeMe, Message: "✅ 找到 导航AI (#C4D9)", Kind: KindFound},
		{ID: "5", Source: NodeDoctor, Target: NodeMe, Message: "我已查到最近医院是东京医科大学，距离2.3km", Kind: KindNegotiate},
		{ID: "6", Source: NodeNetwork, Target: NodeMe, Message: "✅ 找到 紧急联络AI (#E9F1)", Kind: KindFound},
		{ID: "7", Source: NodeFamily, Target: NodeMe, Message: "我会通知你家人的AI，但不会吵醒他们", Kind: KindNegotiate},
		{ID: "8", Source: NodeMe, Target: NodeNetwork, Message: "🚑 正在协调救护车与支付...", Kind: KindNegotiate},
		{ID: "9", Source: NodeMe, Target: NodeMe, Message: "✅ 你的AI已完成所有协调", Kind: KindSuccess},
	},
	Summary: Summary{
		Title: "医疗急救协调完成",
		Actions: []Action{
			{Icon: "🚑", Title: "救护车", Description: "预计 15 分钟后到达 (已自动支付)"},
			{Icon: "🏥", Title: "前往医院", Description: "东京医科大学病院 (距离 2.3km)"},
			{Icon: "🗣️", Title: "医疗翻译", Description: "已预约 #A7B2 AI 协助沟通"},
			{Icon: "📞", Title: "家人通知", Description: "已给妈妈的 AI 留言，未打扰睡眠"},
		},
		Recommendation: "请保持冷静，医疗团队即将到达",
	},
}

// SecurityScenario covers robbery, theft, fights and other personal danger.
var SecurityScenario = Scenario{
	Name: ScenarioSecurity,
	Events: []PlaybackEvent{
		{ID: "1", Source: NodeMe, Target: NodeNetwork, Message: "📡 启动最高级别安全警报广播...", Kind: KindBroadcast},
		{ID: "2", Source: NodeNetwork, Target: NodeMe, Message: "✅ 找到 警方联络AI (#P911)", Kind: KindFound},
		{ID: "3", Source: NodePolice, Target: NodeMe, Message: "已自动将当前坐标 (35.69, 139.70) 发送至新宿警署", Kind: KindNegotiate},
		{ID: "4", Source: NodeNetwork, Target: NodeMe, Message: "✅ 找到 法律援助AI (#L888)", Kind: KindFound},
		{ID: "5", Source: NodeLawyer, Target: NodeMe, Message: "保持沉默，我已为你准备好紧急法律建议", Kind: KindNegotiate},
		{ID: "6", Source: NodeNetwork, Target: NodeMe, Message: "✅ 找到 监控取证AI (#C333)", Kind: KindFound},
		{ID: "7", Source: NodeFamily, Target: NodeMe, Message: "已调取附近 3 个公共摄像头画面作为证据", Kind: KindNegotiate},
		{ID: "8", Source: NodeMe, Target: NodeNetwork, Message: "🚓 警车已出动，预计 3 分钟到达", Kind: KindNegotiate},
		{ID: "9", Source: NodeMe, Target: NodeMe, Message: "✅ 安全保护程序已全面激活", Kind: KindSuccess},
	},
	Summary: Summary{
		Title: "安全保护协调完成",
		Actions: []Action{
			{Icon: "🚓", Title: "警察出动", Description: "新宿警署巡逻车，预计 3 分钟到达"},
			{Icon: "⚖️", Title: "法律援助", Description: "#L888 律师已生成紧急话术指引"},
			{Icon: "📹", Title: "证据保全", Description: "已锁定周边 3 个公共摄像头画面"},
			{Icon: "📍", Title: "实时追踪", Description: "位置已共享给警方与紧急联系人"},
		},
		Recommendation: "请尽量远离危险区域，等待警方到达",
	},
}

// TrafficScenario covers collisions and vehicle breakdowns.
var TrafficScenario = Scenario{
	Name: ScenarioTraffic,
	Events: []PlaybackEvent{
		{ID: "1", Source: NodeMe, Target: NodeNetwork, Message: "📡 广播交通事故信息...", Kind: KindBroadcast},
		{ID: "2", Source: NodeNetwork, Target: NodeMe, Message: "✅ 找到 道路救援AI (#R222)", Kind: KindFound},
		{ID: "3", Source: NodeMechanic, Target: NodeMe, Message: "拖车已出发，已避开拥堵路段", Kind: KindNegotiate},
		{ID: "4", Source: NodeNetwork, Target: NodeMe, Message: "✅ 找到 保险理赔AI (#I555)", Kind: KindFound},
		{ID: "5", Source: NodeInsurance, Target: NodeMe, Message: "现场照片已自动上传，理赔流程已开启", Kind: KindNegotiate},
		{ID: "6", Source: NodeNetwork, Target: NodeMe, Message: "✅ 找到 交通疏导AI (#T777)", Kind: KindFound},
		{ID: "7", Source: NodePolice, Target: NodeMe, Message: "已通知后方车辆注意避让，防止二次事故", Kind: KindNegotiate},
		{ID: "8", Source: NodeMe, Target: NodeNetwork, Message: "🚗 代步车已安排，将在维修站等候", Kind: KindNegotiate},
		{ID: "9", Source: NodeMe, Target: NodeMe, Message: "✅ 事故处理协调完成", Kind: KindSuccess},
	},
	Summary: Summary{
		Title: "事故处理协调完成",
		Actions: []Action{
			{Icon: "🔧", Title: "道路救援", Description: "拖车已出发，预计 12 分钟到达"},
			{Icon: "👮", Title: "事故报备", Description: "已向交管部门自动提交事故简报"},
			{Icon: "📝", Title: "保险理赔", Description: "#I555 AI 已开启快速理赔通道"},
			{Icon: "🚗", Title: "代步安排", Description: "维修期间代步车已预约"},
		},
		Recommendation: "请确保人身安全后，在安全位置等待救援",
	},
}

// DefaultRules is the built-in ordered classification: security before traffic.
var DefaultRules = Rules[Scenario]{
	{Keywords: securityKeywords, Result: SecurityScenario},
	{Keywords: trafficKeywords, Result: TrafficScenario},
}
